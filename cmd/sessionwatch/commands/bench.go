package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const benchSecret = "sessionwatch-bench-signing-secret"

type benchOptions struct {
	sessions    int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
}

type benchSession struct {
	mu      sync.Mutex
	store   *session.RedisStore
	manager *goSession.Manager
}

// BenchCommand measures classification and refresh latency over many
// monitored sessions.
func BenchCommand() *cobra.Command {
	opts := benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure session classification and refresh latency",
		Long:  "Seed monitored sessions in Redis (or an in-process miniredis) and time GetSessionInfo and RefreshMonitoring under concurrency.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.sessions, "sessions", 1000, "number of sessions to seed")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 64, "number of concurrent workers")
	cmd.Flags().IntVar(&opts.ops, "ops", 20000, "operations per phase")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address; miniredis is used when empty")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "bench", "session key prefix")

	return cmd
}

func runBench(ctx context.Context, out io.Writer, opts benchOptions) error {
	if opts.sessions <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
		return errors.New("sessions, concurrency, and ops must be > 0")
	}

	client, cleanup, err := benchRedis(out, opts.redisAddr)
	if err != nil {
		return err
	}
	defer cleanup()

	signer, err := jwt.NewSigner(jwt.SignerConfig{
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte(benchSecret),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "seeding %d sessions...\n", opts.sessions)
	startSeed := time.Now()
	sessions := make([]*benchSession, opts.sessions)
	defer func() {
		for _, s := range sessions {
			if s != nil {
				s.manager.Close()
			}
		}
	}()
	for i := range sessions {
		s, err := seedBenchSession(ctx, client, signer, opts.prefix, i)
		if err != nil {
			return err
		}
		sessions[i] = s
	}
	fmt.Fprintf(out, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	classifyStats := runPhase(opts.ops, opts.concurrency, 7919, func(r *rand.Rand, _ int) error {
		s := sessions[r.Intn(len(sessions))]
		if !s.manager.IsSessionValid(ctx) {
			return errors.New("session not valid")
		}
		return nil
	})

	refreshStats := runPhase(opts.ops, opts.concurrency, 6151, func(r *rand.Rand, i int) error {
		s := sessions[r.Intn(len(sessions))]
		s.mu.Lock()
		defer s.mu.Unlock()

		token, err := signer.Mint(fmt.Sprintf("u-%d", i), time.Hour+time.Duration(r.Intn(3600))*time.Second, nil)
		if err != nil {
			return err
		}
		if err := s.store.Save(ctx, session.Session{Token: token}); err != nil {
			return err
		}
		return s.manager.RefreshMonitoring(ctx)
	})

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "classify", classifyStats)
	printStats(out, "refresh", refreshStats)
	return nil
}

func benchRedis(out io.Writer, addr string) (redis.UniversalClient, func(), error) {
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		fmt.Fprintf(out, "using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	fmt.Fprintf(out, "using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

func seedBenchSession(ctx context.Context, client redis.UniversalClient, signer *jwt.Signer, prefix string, i int) (*benchSession, error) {
	store := session.NewRedisStore(client, prefix, fmt.Sprintf("sid-%d", i))
	token, err := signer.Mint(fmt.Sprintf("u-%d", i), 24*time.Hour, nil)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, session.Session{Token: token, UserID: fmt.Sprintf("u-%d", i)}); err != nil {
		return nil, fmt.Errorf("save failed: %w", err)
	}

	m, err := goSession.New().WithStore(store).Build()
	if err != nil {
		return nil, err
	}
	if err := m.Initialize(ctx, goSession.Config{}); err != nil {
		m.Close()
		return nil, err
	}
	return &benchSession{store: store, manager: m}, nil
}

// runPhase runs ops calls of op across concurrency workers and records
// per-call latency.
func runPhase(ops, concurrency int, seedSalt int64, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seedSalt))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}
