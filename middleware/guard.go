package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	goSession "github.com/MrEthical07/goSession"
)

type sessionInfoContextKey struct{}

// Validator is the part of [goSession.Manager] the guards depend on.
type Validator interface {
	ValidateSession(ctx context.Context) bool
	GetSessionInfo(ctx context.Context) goSession.SessionInfo
}

// SessionInfoFromContext returns the session info stored by [RequireSession].
func SessionInfoFromContext(ctx context.Context) (goSession.SessionInfo, bool) {
	info, ok := ctx.Value(sessionInfoContextKey{}).(goSession.SessionInfo)
	return info, ok
}

// Option configures RequireSession.
type Option func(*guardConfig)

type guardConfig struct {
	loginURL string
}

// WithLoginRedirect answers invalid sessions with 303 See Other to url
// instead of 401.
func WithLoginRedirect(url string) Option {
	return func(c *guardConfig) {
		c.loginURL = url
	}
}

// RequireSession serves next only while the host's session is valid or
// expiring soon. A failed check runs the manager's expired path.
func RequireSession(v Validator, opts ...Option) func(http.Handler) http.Handler {
	cfg := guardConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil || !v.ValidateSession(r.Context()) {
				reject(w, r, cfg)
				return
			}

			info := v.GetSessionInfo(r.Context())
			ctx := context.WithValue(r.Context(), sessionInfoContextKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StatusHandler reports the current session info as JSON. It never changes
// manager state, so UIs can poll it.
func StatusHandler(v Validator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v == nil {
			http.Error(w, "session manager unavailable", http.StatusServiceUnavailable)
			return
		}
		info := v.GetSessionInfo(r.Context())
		resp := statusResponse{
			State:           info.State,
			IsAuthenticated: info.IsAuthenticated,
			RemainingMS:     info.TimeUntilExpiration.Milliseconds(),
		}
		if info.HasExpiration() {
			resp.ExpiresAt = &info.ExpiresAt
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

type statusResponse struct {
	State           goSession.SessionState `json:"state"`
	IsAuthenticated bool                   `json:"is_authenticated"`
	RemainingMS     int64                  `json:"remaining_ms"`
	ExpiresAt       *time.Time             `json:"expires_at,omitempty"`
}

func reject(w http.ResponseWriter, r *http.Request, cfg guardConfig) {
	if cfg.loginURL != "" {
		http.Redirect(w, r, cfg.loginURL, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
