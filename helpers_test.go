package goSession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/session"
	gjwt "github.com/golang-jwt/jwt/v5"
)

var testEpoch = time.Unix(1_700_000_000, 0)

func tokenWithClaims(t *testing.T, claims gjwt.MapClaims) string {
	t.Helper()
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).
		SignedString([]byte("manager-test-secret-manager-0001"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	return tokenWithClaims(t, gjwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
}

// hookRecorder captures hook invocations.
type hookRecorder struct {
	mu        sync.Mutex
	expired   int
	renewed   int
	warnings  []time.Duration
	expiredCh chan struct{}
	warningCh chan time.Duration
}

func newHookRecorder() *hookRecorder {
	return &hookRecorder{
		expiredCh: make(chan struct{}, 8),
		warningCh: make(chan time.Duration, 8),
	}
}

func (r *hookRecorder) config(window time.Duration) Config {
	return Config{
		WarningWindow: window,
		OnExpired: func() {
			r.mu.Lock()
			r.expired++
			r.mu.Unlock()
			select {
			case r.expiredCh <- struct{}{}:
			default:
			}
		},
		OnExpiringSoon: func(left time.Duration) {
			r.mu.Lock()
			r.warnings = append(r.warnings, left)
			r.mu.Unlock()
			select {
			case r.warningCh <- left:
			default:
			}
		},
		OnSessionRenewed: func() {
			r.mu.Lock()
			r.renewed++
			r.mu.Unlock()
		},
	}
}

func (r *hookRecorder) counts() (warnings, expired, renewed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings), r.expired, r.renewed
}

func (r *hookRecorder) lastWarning() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.warnings) == 0 {
		return -1
	}
	return r.warnings[len(r.warnings)-1]
}

func assertCounts(t *testing.T, r *hookRecorder, warnings, expired, renewed int) {
	t.Helper()
	w, e, rn := r.counts()
	if w != warnings || e != expired || rn != renewed {
		t.Fatalf("expected warnings=%d expired=%d renewed=%d, got warnings=%d expired=%d renewed=%d",
			warnings, expired, renewed, w, e, rn)
	}
}

func newTestManager(t *testing.T, store session.Store, clock Clock) *Manager {
	t.Helper()
	m, err := New().WithStore(store).WithClock(clock).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

type failingStore struct{}

func (failingStore) Token(context.Context) (string, error) {
	return "", errors.New("backend down")
}

func newStoreWithExpiry(t *testing.T, exp time.Time) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	store.SetToken(tokenExpiringAt(t, exp))
	return store
}
