package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/session"
	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, exp time.Time) (*goSession.Manager, *session.MemoryStore, *int) {
	t.Helper()

	store := session.NewMemoryStore()
	if !exp.IsZero() {
		token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{"exp": exp.Unix()}).
			SignedString([]byte("middleware-test-secret-000000000"))
		require.NoError(t, err)
		store.SetToken(token)
	}

	m, err := goSession.New().WithStore(store).Build()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	expired := 0
	require.NoError(t, m.Initialize(context.Background(), goSession.Config{
		WarningWindow: time.Minute,
		OnExpired:     func() { expired++ },
	}))
	return m, store, &expired
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := SessionInfoFromContext(r.Context())
		assert.True(t, ok)
		assert.True(t, info.IsAuthenticated)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireSessionAllowsValidSession(t *testing.T) {
	m, _, expired := newManager(t, time.Now().Add(time.Hour))

	rec := httptest.NewRecorder()
	RequireSession(m)(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, *expired)
}

func TestRequireSessionRejectsMissingSession(t *testing.T) {
	m, _, expired := newManager(t, time.Time{})

	rec := httptest.NewRecorder()
	RequireSession(m)(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, *expired)
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	m, store, _ := newManager(t, time.Now().Add(time.Hour))
	_ = store.Delete(context.Background())

	rec := httptest.NewRecorder()
	RequireSession(m, WithLoginRedirect("/login"))(okHandler(t)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireSessionNilValidator(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireSession(nil)(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	m, _, expired := newManager(t, time.Now().Add(30*time.Second))

	rec := httptest.NewRecorder()
	StatusHandler(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "expiring-soon", body["state"])
	assert.Equal(t, true, body["is_authenticated"])
	assert.Contains(t, body, "expires_at")
	assert.Zero(t, *expired)
}

func TestStatusHandlerWithoutSession(t *testing.T) {
	m, _, _ := newManager(t, time.Time{})

	rec := httptest.NewRecorder()
	StatusHandler(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid", body["state"])
	assert.NotContains(t, body, "expires_at")
}
