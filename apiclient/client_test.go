package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MrEthical07/goSession/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Token(context.Context) (string, error) {
	return "", session.ErrStoreUnavailable
}

func newStore(token string) *session.MemoryStore {
	store := session.NewMemoryStore()
	store.SetToken(token)
	return store
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"widget"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, newStore("tok-123"))

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/items/1", &out))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "widget", out.Name)
}

func TestClientWithoutSessionSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL, session.NewMemoryStore())
	require.NoError(t, client.Get(context.Background(), "/public", nil))
	assert.Empty(t, gotAuth)
}

func TestClientStoreFailureAbortsRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := New(srv.URL, brokenStore{})
	err := client.Get(context.Background(), "/items", nil)
	require.ErrorIs(t, err, session.ErrStoreUnavailable)
	assert.Zero(t, hits.Load())
}

func TestClientUnauthorizedInvokesHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var calls atomic.Int32
	client := New(srv.URL, newStore("stale"), WithUnauthorizedHandler(func(context.Context) {
		calls.Add(1)
	}))

	err := client.Get(context.Background(), "/items", nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientSessionGuardRefusesRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := New(srv.URL, newStore("tok"), WithSessionGuard(func(context.Context) bool { return false }))

	err := client.Post(context.Background(), "/items", map[string]string{"a": "b"}, nil)
	require.ErrorIs(t, err, ErrSessionInvalid)
	assert.Zero(t, hits.Load())
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := New(srv.URL, newStore("tok"))
	err := client.Post(context.Background(), "/items", map[string]int{"n": 1}, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Equal(t, http.MethodPost, statusErr.Method)
}

func TestRenewSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != DefaultRenewPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer old" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    "new",
			"user_id":  "u1",
			"username": "ada",
			"roles":    []string{"admin"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, newStore("old"))
	s, err := client.RenewSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", s.Token)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "ada", s.Username)
	assert.Equal(t, []string{"admin"}, s.Roles)
	assert.False(t, s.IssuedAt.IsZero())
}

func TestRenewSessionFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "empty token", status: http.StatusOK, body: `{"token":""}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := New(srv.URL, newStore("old"), WithRenewPath("/session/renew"))
			_, err := client.RenewSession(context.Background())
			require.ErrorIs(t, err, ErrRenewFailed)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
