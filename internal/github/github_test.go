package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/users/octocat/repos":
			fmt.Fprint(w, `[{"name":"hello-world","html_url":"https://github.com/octocat/hello-world","stargazers_count":7,"forks_count":2}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReposFetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	stub := newStub(t, &hits)
	svc := NewService("").WithBaseURL(stub.URL)

	repos, err := svc.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "hello-world", repos[0].Name)
	assert.Equal(t, 7, repos[0].Stars)

	// Second read is served from cache
	_, err = svc.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRefreshBypassesCache(t *testing.T) {
	var hits atomic.Int32
	stub := newStub(t, &hits)
	svc := NewService("").WithBaseURL(stub.URL)

	_, err := svc.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background(), "octocat"))
	assert.Equal(t, int32(2), hits.Load())
}

func TestReposUnknownUser(t *testing.T) {
	var hits atomic.Int32
	stub := newStub(t, &hits)
	svc := NewService("").WithBaseURL(stub.URL)

	_, err := svc.Repos(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

type staticUsernames []string

func (s staticUsernames) GithubUsernames() ([]string, error) { return s, nil }

func TestRefresherWarmsCache(t *testing.T) {
	var hits atomic.Int32
	stub := newStub(t, &hits)
	svc := NewService("").WithBaseURL(stub.URL)

	r := NewRefresher(svc, staticUsernames{"octocat"})
	r.refreshAll()

	assert.Equal(t, int32(1), hits.Load())

	// The warmed entry now serves without another upstream call
	_, err := svc.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
