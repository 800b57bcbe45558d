package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/accountlinking/internal/adapter/kafka"
	"github.com/heartmarshall/accountlinking/internal/adapter/policy"
	"github.com/heartmarshall/accountlinking/internal/adapter/provider/google"
	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/events"
	"github.com/heartmarshall/accountlinking/internal/metrics"
	"github.com/heartmarshall/accountlinking/internal/service/accountlinking"
	"github.com/heartmarshall/accountlinking/internal/service/auth"
	"github.com/heartmarshall/accountlinking/internal/sessiontoken"
	"github.com/heartmarshall/accountlinking/internal/transport/middleware"
	"github.com/heartmarshall/accountlinking/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects the
// configured stores, wires the services and serves HTTP until ctx is done.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("build", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store_driver", cfg.Linking.StoreDriver),
		slog.Bool("linking_enabled", cfg.Linking.Enabled),
	)

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	decider, err := policy.Load(ctx, logger, cfg.Linking)
	if err != nil {
		return fmt.Errorf("load linking policy: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	sinks := events.Multi{events.NewLogSink(logger), collector}
	if sink := kafka.NewSink(cfg.Kafka, logger); sink != nil {
		defer sink.Close() //nolint:errcheck
		sinks = append(sinks, sink)
		logger.Info("decision events published to kafka", slog.String("topic", cfg.Kafka.Topic))
	}

	linking := accountlinking.NewService(logger, st.links, st.sessions, st.verifier, decider, sinks, cfg.Linking)
	authService := auth.NewService(logger, st.links, linking, st.verifier, st.sessions, cfg.Auth)
	if cfg.Auth.GoogleEnabled() {
		authService.SetProviderVerifier(google.NewVerifier(cfg.Auth, logger))
		logger.Info("google sign-in enabled")
	}

	tokens := sessiontoken.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	deps := &rest.RouterDeps{
		Server:      cfg.Server,
		CORS:        cfg.CORS,
		Auth:        rest.NewAuthHandler(authService, tokens, logger),
		Admin:       rest.NewAdminHandler(linking, logger),
		Health:      rest.NewHealthHandler(BuildVersion(), st.health),
		MetricsPath: cfg.Metrics.Path,
		Logger:      middleware.Logger(logger),
		Recovery:    middleware.Recovery(logger),
		Session:     middleware.Session(tokens, st.sessions),
		RateLimiter: limiter,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.Handler(registry)
		deps.Instrument = middleware.Metrics(collector)
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      rest.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err, ok := <-errCh; ok && err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
