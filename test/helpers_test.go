package test

import (
	"context"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/session"
	"github.com/alicebob/miniredis/v2"
	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const integrationSecret = "integration-test-secret-000000000"

func newIntegrationStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewRedisStore(rdb, "it", "default"), mr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte(integrationSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newIntegrationManager(t *testing.T, store session.Store) *goSession.Manager {
	t.Helper()
	m, err := goSession.New().WithStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func saveToken(t *testing.T, store session.Writer, token string) {
	t.Helper()
	if err := store.Save(context.Background(), session.Session{Token: token, UserID: "user-1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}
