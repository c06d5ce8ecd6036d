package goSession

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/session"
)

func TestWallClockWarningThenExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("wall clock test")
	}

	store := session.NewMemoryStore()
	// Whole-second exp that is more than the window away.
	store.SetToken(tokenExpiringAt(t, time.Now().Add(1500*time.Millisecond)))
	m := newTestManager(t, store, SystemClock())
	rec := newHookRecorder()

	window := 500 * time.Millisecond
	if err := m.Initialize(context.Background(), rec.config(window)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	select {
	case left := <-rec.warningCh:
		if left <= 0 || left > window {
			t.Fatalf("expected time left in (0, %v], got %v", window, left)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("warning did not fire")
	}

	select {
	case <-rec.expiredCh:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry did not fire")
	}

	time.Sleep(200 * time.Millisecond)
	assertCounts(t, rec, 1, 1, 0)
}

func TestWallClockRefreshSilencesOldTimers(t *testing.T) {
	if testing.Short() {
		t.Skip("wall clock test")
	}

	store := session.NewMemoryStore()
	store.SetToken(tokenExpiringAt(t, time.Now().Add(2500*time.Millisecond)))
	m := newTestManager(t, store, SystemClock())
	rec := newHookRecorder()

	if err := m.Initialize(context.Background(), rec.config(500*time.Millisecond)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	store.SetToken(tokenExpiringAt(t, time.Now().Add(time.Minute)))
	if err := m.RefreshMonitoring(context.Background()); err != nil {
		t.Fatalf("RefreshMonitoring failed: %v", err)
	}

	select {
	case <-rec.warningCh:
		t.Fatal("stale warning fired")
	case <-rec.expiredCh:
		t.Fatal("stale expiry fired")
	case <-time.After(3 * time.Second):
	}
	assertCounts(t, rec, 0, 0, 1)
}
