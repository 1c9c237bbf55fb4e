// Package client is a Go client for the DevConnect API. Authentication
// state lives in an explicit finite-state machine driven by events, with
// the current token persisted to a durable store so a session survives
// restarts.
package client

import "github.com/devconnect-app/devconnect-be/internal/models"

// Status is the authentication state of a session.
type Status int

const (
	// StatusUnknown means a session restore has not completed yet.
	StatusUnknown Status = iota
	// StatusAuthenticating means a login or registration is in flight.
	StatusAuthenticating
	// StatusAuthenticated means the session holds a token the server accepted.
	StatusAuthenticated
	// StatusUnauthenticated means there is no usable session.
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session is the client-side authentication state.
type Session struct {
	Status Status
	Token  string
	User   *models.User
}

// Event is a state machine input. Events carry everything a transition
// needs, so Reduce stays a pure function.
type Event interface {
	isEvent()
}

// AuthStarted marks the beginning of a login or registration request.
type AuthStarted struct{}

// RestoreSucceeded means a stored token was accepted by the server.
type RestoreSucceeded struct {
	Token string
	User  models.User
}

// RestoreFailed means the stored token was missing, expired or rejected.
type RestoreFailed struct{}

// LoginSucceeded carries the fresh token and identity after a login.
type LoginSucceeded struct {
	Token string
	User  models.User
}

// LoginFailed means the server rejected the submitted credentials.
type LoginFailed struct{}

// RegisterSucceeded carries the fresh token and identity after signup.
type RegisterSucceeded struct {
	Token string
	User  models.User
}

// RegisterFailed means the server rejected the registration.
type RegisterFailed struct{}

// LoggedOut is the user explicitly ending the session.
type LoggedOut struct{}

// AuthRejected means a request failed with an authorization error while
// the session believed itself authenticated.
type AuthRejected struct{}

func (AuthStarted) isEvent()       {}
func (RestoreSucceeded) isEvent()  {}
func (RestoreFailed) isEvent()     {}
func (LoginSucceeded) isEvent()    {}
func (LoginFailed) isEvent()       {}
func (RegisterSucceeded) isEvent() {}
func (RegisterFailed) isEvent()    {}
func (LoggedOut) isEvent()         {}
func (AuthRejected) isEvent()      {}

// Reduce applies an event to a session and returns the next session. It
// is pure: persistence side effects belong to the Client, which keeps the
// token store in step with the state this returns.
func Reduce(s Session, e Event) Session {
	switch e := e.(type) {
	case AuthStarted:
		s.Status = StatusAuthenticating
		return s
	case RestoreSucceeded:
		return Session{Status: StatusAuthenticated, Token: e.Token, User: &e.User}
	case LoginSucceeded:
		return Session{Status: StatusAuthenticated, Token: e.Token, User: &e.User}
	case RegisterSucceeded:
		return Session{Status: StatusAuthenticated, Token: e.Token, User: &e.User}
	case LoginFailed, RegisterFailed:
		// Failed submissions settle as unauthenticated but do not touch
		// whatever token the session already had.
		s.Status = StatusUnauthenticated
		s.User = nil
		return s
	case RestoreFailed, LoggedOut, AuthRejected:
		return Session{Status: StatusUnauthenticated}
	default:
		return s
	}
}
