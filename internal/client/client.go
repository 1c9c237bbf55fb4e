package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/devconnect-app/devconnect-be/internal/apierr"
	"github.com/devconnect-app/devconnect-be/internal/auth"
	"github.com/devconnect-app/devconnect-be/internal/models"
)

// Client talks to the DevConnect API and owns one logical session. All
// state changes flow through Reduce; the token store is updated in the
// same step, so durable storage and in-memory state never disagree.
//
// Auth calls are serialized by a mutex, so a second submit while one is
// outstanding simply waits rather than racing the state machine.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu      sync.Mutex
	session Session
}

// New creates a Client. The session starts unknown until Restore runs.
func New(baseURL string, store TokenStore) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		session:    Session{Status: StatusUnknown},
	}
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Restore re-establishes a session from the stored token. Any failure,
// whether a missing token, an expired one or a network error, settles the
// session as unauthenticated and discards the stored token.
func (c *Client) Restore(ctx context.Context) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := c.store.Load()
	if err != nil || token == "" {
		if clearErr := c.discard(RestoreFailed{}); err == nil {
			err = clearErr
		}
		return c.session, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth", token, nil, &user); err != nil {
		return c.session, c.discard(RestoreFailed{})
	}

	c.session = Reduce(c.session, RestoreSucceeded{Token: token, User: user})
	return c.session, nil
}

// Login submits credentials. On success the returned token is persisted
// before the session shows authenticated. On failure the session settles
// unauthenticated and the returned error carries the server's error kind.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = Reduce(c.session, AuthStarted{})

	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth", "", body, &resp); err != nil {
		c.session = Reduce(c.session, LoginFailed{})
		return c.session, err
	}

	return c.settle(ctx, resp.Token, func(token string, user models.User) Event {
		return LoginSucceeded{Token: token, User: user}
	})
}

// Register creates an account and logs straight in, same contract as Login.
func (c *Client) Register(ctx context.Context, name, email, password string) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = Reduce(c.session, AuthStarted{})

	body := map[string]string{"name": name, "email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", "", body, &resp); err != nil {
		c.session = Reduce(c.session, RegisterFailed{})
		return c.session, err
	}

	return c.settle(ctx, resp.Token, func(token string, user models.User) Event {
		return RegisterSucceeded{Token: token, User: user}
	})
}

// Logout discards the stored token and clears the session. The token
// itself stays valid server-side until it expires; there is no
// revocation list.
func (c *Client) Logout() (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Clear()
	c.session = Reduce(c.session, LoggedOut{})
	return c.session, err
}

// Do performs an authenticated request against the API. An authorization
// rejection forces the session to unauthenticated and clears the stored
// token; every other error kind leaves the session untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.do(ctx, method, path, c.session.Token, body, out)
	if apiErr, ok := err.(*apierr.Error); ok && apiErr.Kind == apierr.KindAuthorization {
		if clearErr := c.discard(AuthRejected{}); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
	}
	return err
}

// settle finishes a successful login or registration: persist the token,
// fetch the identity behind it, then apply the success event. If the
// fresh token is somehow rejected the session settles unauthenticated.
func (c *Client) settle(ctx context.Context, token string, success func(string, models.User) Event) (Session, error) {
	if err := c.store.Save(token); err != nil {
		c.session = Reduce(c.session, LoginFailed{})
		return c.session, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth", token, nil, &user); err != nil {
		if clearErr := c.discard(AuthRejected{}); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
		return c.session, err
	}

	c.session = Reduce(c.session, success(token, user))
	return c.session, nil
}

// discard clears durable storage before the state transition, so the
// session never reads authenticated while a stale token lingers on disk.
// The Clear error is returned so callers can report a token that could
// not be removed.
func (c *Client) discard(e Event) error {
	err := c.store.Clear()
	c.session = Reduce(c.session, e)
	return err
}

// do builds and executes one request. The token is an explicit parameter
// rather than shared default-header state; an empty token sends no auth
// header at all.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierr.Decode(resp.Body)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
