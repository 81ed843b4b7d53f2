package zoom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges the account credentials", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/oauth/token", r.URL.Path)
			assert.Equal(t, "account_credentials", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "acc-1", r.URL.Query().Get("account_id"))

			clientID, clientSecret, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client", clientID)
			assert.Equal(t, "secret", clientSecret)

			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "account_credentials", r.PostForm.Get("grant_type"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3599}`))
		}))
		defer server.Close()

		provider, err := NewTokenProvider(server.URL+"/oauth/token", "acc-1", "client", "secret", server.Client())
		require.NoError(t, err)

		token, err := provider.AccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)

		// Tokens are not cached
		_, err = provider.AccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("fails on a response without a token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token_type":"bearer"}`))
		}))
		defer server.Close()

		provider, err := NewTokenProvider(server.URL, "acc", "client", "secret", server.Client())
		require.NoError(t, err)

		_, err = provider.AccessToken(ctx)
		var authErr *UpstreamAuthError
		assert.True(t, errors.As(err, &authErr))
	})

	t.Run("fails on rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"reason":"Invalid client_id or client_secret","error":"invalid_client"}`))
		}))
		defer server.Close()

		provider, err := NewTokenProvider(server.URL, "acc", "client", "wrong", server.Client())
		require.NoError(t, err)

		_, err = provider.AccessToken(ctx)
		var authErr *UpstreamAuthError
		assert.True(t, errors.As(err, &authErr))
	})

	t.Run("rejects an invalid token URL", func(t *testing.T) {
		_, err := NewTokenProvider("://broken", "acc", "client", "secret", nil)
		assert.Error(t, err)
	})
}
