package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T, handler http.HandlerFunc) *directory.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return directory.NewClient(config.DirectoryConfig{BaseURL: srv.URL, APIToken: "token"})
}

func TestClient_FindByEmail(t *testing.T) {
	c := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "a+b@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"users":[{"id":"u0","email":"A+B@example.com"},{"id":"u1","email":"a+b@example.com"}]}`))
	})

	account, err := c.FindByEmail(context.Background(), "a+b@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "u1", account.ID)
}

func TestClient_FindByEmail_NoMatch(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		c := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"users":[]}`))
		})
		account, err := c.FindByEmail(context.Background(), "x@example.com")
		assert.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("not found", func(t *testing.T) {
		c := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		account, err := c.FindByEmail(context.Background(), "x@example.com")
		assert.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestClient_FindByEmail_Unavailable(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		c := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.FindByEmail(context.Background(), "x@example.com")
		assert.ErrorIs(t, err, directory.ErrUnavailable)
	})

	t.Run("garbage body", func(t *testing.T) {
		c := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`nope`))
		})
		_, err := c.FindByEmail(context.Background(), "x@example.com")
		assert.ErrorIs(t, err, directory.ErrUnavailable)
	})
}
