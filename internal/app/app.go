package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/bundlepitch/internal/auth"
	"github.com/MrSnakeDoc/bundlepitch/internal/billing"
	"github.com/MrSnakeDoc/bundlepitch/internal/config"
	"github.com/MrSnakeDoc/bundlepitch/internal/copygen"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
	"github.com/MrSnakeDoc/bundlepitch/internal/redis"
	"github.com/MrSnakeDoc/bundlepitch/internal/scheduler"
	"github.com/MrSnakeDoc/bundlepitch/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/bundlepitch/internal/store/redis"
	"github.com/MrSnakeDoc/bundlepitch/internal/store/supabase"
	"github.com/MrSnakeDoc/bundlepitch/internal/version"
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	server  *httpserver.Server
	health  *scheduler.HealthMonitor
	closers []func() error
}

// New connects every dependency and builds the HTTP server. Nothing is
// listening yet.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: loggerClient}

	// Redis backs dedupe and rate limiting whatever the history backend:
	// fail fast if unavailable.
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.closers = append(a.closers, redisClient.Close)
	loggerClient.Info("Redis initialized successfully")

	rs := redisstore.NewStore(redisClient, redisstore.WithRetention(cfg.HistoryRetention))

	sb, err := supabase.New(supabase.Config{
		URL:        cfg.SupabaseURL,
		ServiceKey: cfg.SupabaseServiceKey,
		AnonKey:    cfg.SupabaseAnonKey,
		Table:      cfg.HistoryTable,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	history, err := a.historyStore(ctx, sb, rs)
	if err != nil {
		a.close()
		return nil, err
	}
	loggerClient.Info("history store ready", logger.String("backend", cfg.HistoryBackend))

	checks := []scheduler.Check{
		{Name: "redis", Critical: true, Ping: rs.Ping},
	}
	if cfg.HistoryBackend != config.BackendRedis {
		checks = append(checks, scheduler.Check{Name: "history", Critical: true, Ping: history.Ping})
	}
	a.health = scheduler.NewHealthMonitor(loggerClient, cfg.HealthInterval, scheduler.DefaultProbeTimeout, checks...)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		NewID:          uuid.NewString,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		FrontendURL:    cfg.FrontendURL,
		HistoryBackend: cfg.HistoryBackend,

		HistoryLimit:    cfg.HistoryLimit,
		FreeLimit:       cfg.FreeLimit,
		RateLimit:       cfg.RateLimit,
		RateWindow:      cfg.RateWindow,
		WebhookDedupTTL: cfg.WebhookDedupTTL,

		Generator: copygen.New(),
		History:   history,
		Sessions:  auth.NewVerifier(cfg.SupabaseJWTSecret, cfg.SupabaseJWTAud),
		Auth:      sb,
		Checkout: billing.NewCheckout(billing.CheckoutConfig{
			SecretKey:   cfg.StripeSecretKey,
			PriceID:     cfg.StripePriceID,
			FrontendURL: cfg.FrontendURL,
		}),
		Webhooks:      billing.NewWebhook(cfg.StripeWebhookSecret),
		Subscriptions: sb,
		Events:        rs,
		Limiter:       rs,
		Health:        a.health,
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

// historyStore returns the backend selected by BUNDLEPITCH_HISTORY_BACKEND.
func (a *App) historyStore(ctx context.Context, sb *supabase.Client, rs *redisstore.Store) (deps.HistoryStore, error) {
	switch a.cfg.HistoryBackend {
	case config.BackendSupabase:
		return sb, nil
	case config.BackendRedis:
		return rs, nil
	case config.BackendPostgres:
		pg, err := postgres.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres history store: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", a.cfg.HistoryBackend)
	}
}

// Run serves until SIGINT/SIGTERM or a server error, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting BundlePitch %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("BundlePitch %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	if err := a.health.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health monitor: %w", err)
	}
	a.logger.Info("health monitor started",
		logger.Duration("interval", a.cfg.HealthInterval))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		a.health.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("✅ BundlePitch stopped cleanly")
	return nil
}

// close releases connections in reverse order of acquisition.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warnf("failed to close dependency: %v", err)
		}
	}
	a.closers = nil
}
