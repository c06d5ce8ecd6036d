package test

import (
	"context"
	"fmt"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/apiclient"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
	"github.com/redis/go-redis/v9"
)

// ExampleNew demonstrates manager construction over a Redis-backed store.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	store := session.NewRedisStore(rdb, "app", "default")

	manager, _ := goSession.New().
		WithStore(store).
		WithMetrics(goSession.MetricsConfig{Enabled: true, EnableWarningHistogram: true}).
		Build()
	_ = manager
}

// ExampleManager_Initialize wires UI hooks to the lifecycle.
func ExampleManager_Initialize() {
	var manager *goSession.Manager
	_ = manager.Initialize(context.Background(), goSession.Config{
		WarningWindow: 2 * time.Minute,
		OnExpiringSoon: func(left time.Duration) {
			fmt.Println("session ends in", jwt.FormatDuration(left))
		},
		OnExpired: func() {
			fmt.Println("please sign in again")
		},
	})
}

// ExampleManager_RefreshMonitoring shows the renew-save-refresh sequence.
func ExampleManager_RefreshMonitoring() {
	var (
		manager *goSession.Manager
		store   *session.RedisStore
		api     *apiclient.Client
	)
	ctx := context.Background()

	renewed, err := api.RenewSession(ctx)
	if err != nil {
		return
	}
	if err := store.Save(ctx, renewed); err != nil {
		return
	}
	_ = manager.RefreshMonitoring(ctx)
}

// ExampleFormatDuration shows the countdown format.
func ExampleFormatDuration() {
	fmt.Println(jwt.FormatDuration(90 * time.Minute))
	fmt.Println(jwt.FormatDuration(4*time.Minute + 30*time.Second))
	fmt.Println(jwt.FormatDuration(12*time.Second + 900*time.Millisecond))
	// Output:
	// 1h 30m
	// 4m 30s
	// 12s
}
