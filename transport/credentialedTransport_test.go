package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "test-client", user)
		require.Equal(t, "test-secret", pass)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.FormValue("grant_type"))

		if hits != nil {
			hits.Add(1)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "token-123", "token_type": "Bearer"}`))
	}))
}

func testArgs(graphQLURL string, tokenURL string) ArgsCredentialedTransport {
	return ArgsCredentialedTransport{
		GraphQLEndpoint: graphQLURL,
		TokenEndpoint:   tokenURL,
		ClientID:        "test-client",
		ClientSecret:    "test-secret",
		RequestTimeout:  2 * time.Second,
		MaxAttempts:     3,
	}
}

func TestNewCredentialedTransport(t *testing.T) {
	t.Parallel()

	t.Run("empty GraphQL endpoint should error", func(t *testing.T) {
		args := testArgs("", "http://localhost/token")
		tr, err := NewCredentialedTransport(args)

		require.Nil(t, tr)
		require.True(t, tr.IsInterfaceNil())
		require.Error(t, err)
	})
	t.Run("empty token endpoint should error", func(t *testing.T) {
		args := testArgs("http://localhost/graphql", "")
		tr, err := NewCredentialedTransport(args)

		require.Nil(t, tr)
		require.Error(t, err)
	})
	t.Run("missing credentials should error", func(t *testing.T) {
		args := testArgs("http://localhost/graphql", "http://localhost/token")
		args.ClientSecret = ""
		tr, err := NewCredentialedTransport(args)

		require.Nil(t, tr)
		require.Error(t, err)
	})
	t.Run("should work", func(t *testing.T) {
		args := testArgs("http://localhost/graphql", "http://localhost/token")
		tr, err := NewCredentialedTransport(args)

		require.NotNil(t, tr)
		require.False(t, tr.IsInterfaceNil())
		require.Nil(t, err)
	})
}

func TestCredentialedTransport_Post(t *testing.T) {
	originalDelays := retryDelays
	retryDelays = []time.Duration{time.Millisecond}
	defer func() {
		retryDelays = originalDelays
	}()

	t.Run("authenticates lazily and sends bearer header", func(t *testing.T) {
		var tokenHits atomic.Int32
		tokenServer := newTokenServer(t, &tokenHits)
		defer tokenServer.Close()

		graphQLServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"data": {"ok": true}}`))
		}))
		defer graphQLServer.Close()

		tr, err := NewCredentialedTransport(testArgs(graphQLServer.URL, tokenServer.URL))
		require.NoError(t, err)

		body, err := tr.Post(context.Background(), "{ query }")
		require.NoError(t, err)
		require.Contains(t, string(body), `"ok"`)

		// A second call reuses the credential
		_, err = tr.Post(context.Background(), "{ query }")
		require.NoError(t, err)
		require.Equal(t, int32(1), tokenHits.Load())
	})
	t.Run("retries transient statuses then succeeds", func(t *testing.T) {
		tokenServer := newTokenServer(t, nil)
		defer tokenServer.Close()

		var calls atomic.Int32
		graphQLServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"data": {}}`))
		}))
		defer graphQLServer.Close()

		tr, err := NewCredentialedTransport(testArgs(graphQLServer.URL, tokenServer.URL))
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), "{ query }")
		require.NoError(t, err)
		require.Equal(t, int32(3), calls.Load())
	})
	t.Run("exhausts the attempt bound on persistent transient failures", func(t *testing.T) {
		tokenServer := newTokenServer(t, nil)
		defer tokenServer.Close()

		var calls atomic.Int32
		graphQLServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer graphQLServer.Close()

		tr, err := NewCredentialedTransport(testArgs(graphQLServer.URL, tokenServer.URL))
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), "{ query }")
		require.True(t, errors.Is(err, ErrRetriesExhausted))
		require.Equal(t, int32(3), calls.Load())
	})
	t.Run("does not retry a malformed query", func(t *testing.T) {
		tokenServer := newTokenServer(t, nil)
		defer tokenServer.Close()

		var calls atomic.Int32
		graphQLServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer graphQLServer.Close()

		tr, err := NewCredentialedTransport(testArgs(graphQLServer.URL, tokenServer.URL))
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), "{ query }")
		require.True(t, errors.Is(err, ErrQueryRejected))
		require.Equal(t, int32(1), calls.Load())
	})
	t.Run("does not retry GraphQL-level errors", func(t *testing.T) {
		tokenServer := newTokenServer(t, nil)
		defer tokenServer.Close()

		var calls atomic.Int32
		graphQLServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"errors": [{"message": "Unknown field \"bogus\""}]}`))
		}))
		defer graphQLServer.Close()

		tr, err := NewCredentialedTransport(testArgs(graphQLServer.URL, tokenServer.URL))
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), "{ bogus }")
		require.True(t, errors.Is(err, ErrQueryRejected))
		require.Contains(t, err.Error(), "Unknown field")
		require.Equal(t, int32(1), calls.Load())
	})
	t.Run("expired credential is cleared and surfaced", func(t *testing.T) {
		var tokenHits atomic.Int32
		tokenServer := newTokenServer(t, &tokenHits)
		defer tokenServer.Close()

		var calls atomic.Int32
		graphQLServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"data": {}}`))
		}))
		defer graphQLServer.Close()

		tr, err := NewCredentialedTransport(testArgs(graphQLServer.URL, tokenServer.URL))
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), "{ query }")
		require.True(t, errors.Is(err, ErrCredentialExpired))

		// The next call re-authenticates and succeeds
		_, err = tr.Post(context.Background(), "{ query }")
		require.NoError(t, err)
		require.Equal(t, int32(2), tokenHits.Load())
	})
	t.Run("failing token endpoint surfaces an authentication error", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer tokenServer.Close()

		tr, err := NewCredentialedTransport(testArgs("http://localhost:59999", tokenServer.URL))
		require.NoError(t, err)

		_, err = tr.Post(context.Background(), "{ query }")
		require.True(t, errors.Is(err, ErrAuthentication))
	})
}
