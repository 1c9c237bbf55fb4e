package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "session", "token"))

	// Empty store means no session
	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok-abc"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)

	// Overwrite keeps exactly one token
	require.NoError(t, store.Save("tok-def"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-def", token)

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing twice is fine
	require.NoError(t, store.Clear())
}
