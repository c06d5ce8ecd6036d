package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/apiclient"
	"github.com/MrEthical07/goSession/internal/rate"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/metrics/export/prometheus"
	"github.com/MrEthical07/goSession/session"
	"github.com/spf13/cobra"
)

// ErrNoUsableSession is returned by watch when the store holds no token with an exp claim.
var ErrNoUsableSession = errors.New("no usable session in store")

const shutdownTimeout = 5 * time.Second

// WatchCommand follows the stored session until it expires.
func WatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the stored session until it expires",
		Long: `Follow the session stored in Redis. Warnings are logged inside WARNING_WINDOW.
With AUTO_RENEW=true the session is renewed through API_BASE_URL. When the
session expires it is deleted from Redis and the command exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rdb := cfg.redisClient()
			defer rdb.Close()

			store := session.NewRedisStore(rdb, cfg.SessionPrefix, cfg.SessionKey)
			limiter := rate.New(rdb, cfg.SessionPrefix, rate.Config{
				MaxAttempts: cfg.RenewMaxAttempts,
				Cooldown:    cfg.RenewCooldown,
			})
			return runWatch(ctx, cfg, logger, store, limiter, cmd.OutOrStdout())
		},
	}
	return cmd
}

type watcher struct {
	cfg     Config
	logger  *slog.Logger
	store   session.ReadWriter
	out     io.Writer
	manager *goSession.Manager
	api     *apiclient.Client
	limiter *rate.Limiter

	renew     chan struct{}
	expired   chan struct{}
	closeOnce sync.Once
}

func runWatch(ctx context.Context, cfg Config, logger *slog.Logger, store session.ReadWriter, limiter *rate.Limiter, out io.Writer) error {
	w := &watcher{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		limiter: limiter,
		out:     out,
		renew:   make(chan struct{}, 1),
		expired: make(chan struct{}),
	}

	builder := goSession.New().WithStore(store).WithLogger(logger)
	if cfg.AuditLog {
		builder = builder.WithAuditSink(goSession.NewJSONWriterSink(out))
	}
	m, err := builder.Build()
	if err != nil {
		return err
	}
	defer m.Close()
	w.manager = m

	if info := m.GetSessionInfo(ctx); info.State == goSession.StateInvalid {
		return ErrNoUsableSession
	}

	if cfg.APIBaseURL != "" {
		w.api = apiclient.New(cfg.APIBaseURL, store,
			apiclient.WithLogger(logger),
			apiclient.WithTimeout(cfg.APITimeout),
			apiclient.WithSessionGuard(m.IsSessionValid),
			apiclient.WithUnauthorizedHandler(m.ForceExpire),
		)
	}

	if cfg.MetricsAddr != "" {
		shutdown := w.serveMetrics(prometheus.NewPrometheusExporter(m))
		defer shutdown()
	}

	if err := m.Initialize(ctx, w.hooks()); err != nil {
		return err
	}
	return w.loop(ctx)
}

func (w *watcher) hooks() goSession.Config {
	return goSession.Config{
		WarningWindow: w.cfg.WarningWindow,
		OnExpiringSoon: func(left time.Duration) {
			w.logger.Warn("session expiring soon", "time_left", jwt.FormatDuration(left))
			if w.cfg.AutoRenew && w.api != nil {
				select {
				case w.renew <- struct{}{}:
				default:
				}
			}
		},
		OnExpired: func() {
			w.closeOnce.Do(func() { close(w.expired) })
		},
		OnSessionRenewed: func() {
			w.logger.Info("session monitoring refreshed")
		},
	}
}

func (w *watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch interrupted")
			return nil
		case <-w.expired:
			return w.logout()
		case <-w.renew:
			w.renewSession(ctx)
		}
	}
}

// renewSession failures are logged only; the expiry timer still ends the session.
func (w *watcher) renewSession(ctx context.Context) {
	if err := w.limiter.CheckRenew(ctx, w.cfg.SessionKey); err != nil {
		w.logger.Warn("session renewal skipped", "error", err)
		return
	}
	s, err := w.api.RenewSession(ctx)
	if err != nil {
		w.logger.Warn("session renewal failed", "error", err)
		return
	}
	if err := w.store.Save(ctx, s); err != nil {
		w.logger.Error("saving renewed session failed", "error", err)
		return
	}
	if err := w.manager.RefreshMonitoring(ctx); err != nil {
		w.logger.Error("refresh monitoring failed", "error", err)
	}
}

func (w *watcher) logout() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := w.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete expired session: %w", err)
	}
	w.logger.Info("session expired, stored session removed")
	fmt.Fprintln(w.out, "session expired")
	return nil
}

func (w *watcher) serveMetrics(exporter *prometheus.PrometheusExporter) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())
	srv := &http.Server{
		Addr:              w.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.logger.Error("metrics server stopped", "error", err)
		}
	}()
	w.logger.Info("serving metrics", "addr", w.cfg.MetricsAddr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
