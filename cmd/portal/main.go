package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/config"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	httpserver "github.com/WailSalutem-Health-Care/care-portal/internal/http"
	"github.com/WailSalutem-Health-Care/care-portal/internal/logging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
	"github.com/WailSalutem-Health-Care/care-portal/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", "production")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.InitProvider(ctx, cfg.Telemetry())
	if err != nil {
		log.Warn().Err(err).Msg("telemetry unavailable, continuing without it")
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create metrics")
	}

	store, closeStore := sessionStore(ctx, cfg)
	defer closeStore()

	publisher := eventPublisher(cfg)
	defer publisher.Close()

	perms := auth.DefaultPermissions()
	if cfg.PermissionsFile != "" {
		if perms, err = auth.LoadPermissions(cfg.PermissionsFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.PermissionsFile).Msg("failed to load permissions")
		}
	}

	gw := gateway.New(cfg.BackendURL, gateway.WithMetrics(metrics))
	signer := auth.NewCookieSigner(cfg.CookieSecret, cfg.SessionTTL, cfg.CookieSecure)

	handler := httpserver.NewHandler(httpserver.Deps{
		Backend:        backend.New(gw),
		Sessions:       auth.NewSessions(store, signer, metrics),
		Permissions:    perms,
		Publisher:      publisher,
		Metrics:        metrics,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.BackendURL).Msg("care-portal starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if provider != nil {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}
}

func sessionStore(ctx context.Context, cfg *config.Config) (session.Store, func()) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		log.Info().Msg("using in-memory session store")
		return session.NewMemoryStore(), func() {}
	}

	client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis session store")
	return session.NewRedisStore(client, cfg.SessionTTL), func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

// eventPublisher connects to RabbitMQ when events are enabled. A broker that
// is down at startup disables events rather than the portal.
func eventPublisher(cfg *config.Config) messaging.PublisherInterface {
	if !cfg.EventsEnabled {
		return messaging.NopPublisher{}
	}
	publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
		return messaging.NopPublisher{}
	}
	return publisher
}
