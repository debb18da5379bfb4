package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lalitjoshi007/FMT/internal/config"
	"github.com/lalitjoshi007/FMT/internal/metrics"
	"github.com/lalitjoshi007/FMT/internal/oauth"
	"github.com/lalitjoshi007/FMT/internal/pkg/middleware"
	"github.com/lalitjoshi007/FMT/internal/pkg/router"
	"github.com/lalitjoshi007/FMT/internal/rest"
	"github.com/lalitjoshi007/FMT/internal/service"
	"github.com/lalitjoshi007/FMT/internal/store"
	"github.com/lalitjoshi007/FMT/internal/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const readyTimeout = 2 * time.Second

func run(ctx context.Context) error {
	cfg := config.FromEnv()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("starting auth service")

	client, err := store.NewMongoClient(ctx, store.MongoConfig{
		URI:            cfg.Mongo.URI,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("failed to disconnect from mongo", "error", err)
		}
	}()

	users := store.NewMongoStore(client.Database(cfg.Mongo.DB), cfg.Mongo.UsersCollection)
	if cfg.Mongo.EnsureIndexes {
		if err := users.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
	}

	providers, err := oauth.NewProviders(cfg.Providers...)
	if err != nil {
		return fmt.Errorf("failed to register oauth providers: %w", err)
	}
	slog.Warn("provider assertions are accepted without verification", "providers", providers.Names())

	jwt, err := token.NewJWTIssuer(token.JwtConfig{
		Secret:    token.NewSecretString(cfg.JWT.Secret),
		Algorithm: cfg.JWT.Algorithm,
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	srv := service.NewAuth(
		service.WithStore(users),
		service.WithTokens(jwt),
		service.WithProviders(providers),
		service.WithAccessTTL(cfg.JWT.AccessTTL),
		service.WithMetrics(collector),
	)

	rt := router.New()
	rt.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Log(),
		middleware.CORS(),
		middleware.Metrics(collector),
	)
	rt.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rt.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := users.Ping(pingCtx); err != nil {
			slog.WarnContext(r.Context(), "mongo is not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	rt.Handle("GET /metrics", metrics.Handler(reg))
	rt.Handle("/", rest.NewAPI(srv, jwt))

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      rt,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("auth service terminated with error", "error", err)
		os.Exit(1)
	}
}
