package ferveuservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/activity"
	"github.com/ulissesgoncalvess/ferveu/internal/api"
	"github.com/ulissesgoncalvess/ferveu/internal/auth"
	"github.com/ulissesgoncalvess/ferveu/internal/config"
	"github.com/ulissesgoncalvess/ferveu/internal/core/progression"
	"github.com/ulissesgoncalvess/ferveu/internal/factory"
	"github.com/ulissesgoncalvess/ferveu/internal/geo"
	"github.com/ulissesgoncalvess/ferveu/internal/health"
	"github.com/ulissesgoncalvess/ferveu/internal/logger"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/places"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
	"github.com/ulissesgoncalvess/ferveu/internal/strategy"
)

// Run starts the ferveu HTTP service and blocks until shutdown or error.
func Run() error {
	log := logger.New("ferveu-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("session_store", cfg.SessionStoreDriver).
		Str("places_provider", cfg.PlacesProvider).
		Str("strategy_provider", cfg.StrategyProvider).
		Int("http_port", cfg.HTTPPort).
		Msg("Ferveu service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	d, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.close(log)

	// Activity stream runs until the engine is closed
	fwdCtx, stopForwarder := context.WithCancel(context.Background())
	var fwdWG sync.WaitGroup
	fwdWG.Add(1)
	go func() {
		defer fwdWG.Done()
		activity.NewForwarder(d.bus, d.sink, log).Run(fwdCtx)
	}()
	defer func() {
		stopForwarder()
		fwdWG.Wait()
	}()

	ctrl := newController(cfg, d, log)
	defer ctrl.Close()

	if ok, err := ctrl.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore remembered session")
	} else if ok {
		log.Info().Msg("remembered session restored")
	}

	router := api.NewRouter(ctrl, api.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   log.With().Str("component", "http").Logger(),
		Log:         log,
	})

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, d.store)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// dependencies are the collaborators built from configuration.
type dependencies struct {
	store   sessionstore.Store
	places  places.Provider
	advisor *strategy.Advisor
	auth    *auth.Local
	locator *geo.Feed
	bus     *activity.Bus
	sink    activity.Sink
}

// initDependencies constructs required components and fails fast when the
// session store is unavailable.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	st, err := factory.NewSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Session store unavailable")
		return nil, err
	}
	return &dependencies{
		store:   st,
		places:  factory.NewPlacesProvider(cfg, log),
		advisor: factory.NewAdvisor(cfg, log),
		auth:    auth.NewLocal(cfg.AuthSecret, cfg.AuthDelay, cfg.SessionTTL),
		locator: geo.NewFeed(),
		bus:     activity.NewBus(cfg.ActivityBuffer),
		sink:    factory.NewActivitySink(cfg, log),
	}, nil
}

func (d *dependencies) close(log zerolog.Logger) {
	if err := d.sink.Close(); err != nil {
		log.Warn().Err(err).Msg("activity sink close failed")
	}
	if err := d.store.Close(); err != nil {
		log.Warn().Err(err).Msg("session store close failed")
	}
}

// sessionOptions maps configuration onto engine tunables.
func sessionOptions(cfg *config.Config) session.Options {
	opts := session.DefaultOptions()
	opts.Rules = cfg.HeatRules()
	opts.Levels = progression.DefaultTable()
	opts.Rewards = cfg.Rewards()
	opts.DecayInterval = cfg.DecayInterval
	opts.NotificationTTL = cfg.NotificationTTL
	opts.PanelRadius = cfg.PanelRadiusDeg
	opts.PlacesRadius = cfg.PlacesRadiusMeters
	opts.RankingSize = cfg.RankingSize
	opts.DefaultCenter = model.LatLng{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}
	return opts
}

func newController(cfg *config.Config, d *dependencies, log zerolog.Logger) *session.Controller {
	return session.NewController(sessionOptions(cfg), session.Deps{
		Auth:     d.auth,
		Verifier: d.auth,
		Store:    d.store,
		Places:   d.places,
		Advisor:  d.advisor,
		Locator:  d.locator,
		Bus:      d.bus,
		Log:      log,
	})
}

// startHealthCheckers starts component checkers and the service-level
// aggregator; binds health to the API.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st sessionstore.Store) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	if pinger, ok := st.(health.HealthPinger); ok {
		storeChecker := health.NewPingChecker("session-store", pinger, log, probeTimeout)
		go storeChecker.Start(ctx, interval)
		checkers = append(checkers, storeChecker)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, aggregateInterval(interval))
	api.BindServiceHealth(svcHealth)
	return svcHealth
}

// aggregateInterval caps how long a component result waits before it is
// reflected in the service flag.
func aggregateInterval(interval time.Duration) time.Duration {
	if interval <= 0 || interval > time.Second {
		return time.Second
	}
	return interval
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in
// seconds: twice the probe interval, at least 15 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 15 {
		return 15
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup
// window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a context cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
