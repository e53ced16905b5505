package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tmf-api/internal/auth"
	"tmf-api/internal/config"
	"tmf-api/internal/handler"
	"tmf-api/internal/infrastructure"
	"tmf-api/internal/logging"
	"tmf-api/internal/metrics"
	"tmf-api/internal/seed"
	"tmf-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app はserveとseedで共有する依存関係
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    infrastructure.Store
	services *service.Services
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup(logging.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Environment,
	})

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := infrastructure.OpenStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	locator := service.NewLocator(cfg.Server.PublicURL, cfg.Server.BasePath)
	services := service.NewServices(service.Deps{
		Store:   store,
		Locator: locator,
		Matcher: service.NewMatcher(loc),
		Logger:  logger,
		Metrics: m,
	}, infrastructure.NewHTTPNotifier(cfg.Hub.Timeout))

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		services: services,
		registry: registry,
		metrics:  m,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

func (a *app) seed(ctx context.Context, path string) error {
	report, err := seed.NewSeedDataManager(a.services, a.logger).SeedFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", path, err)
	}
	a.logger.Info("seed complete", "file", path, "created", report.Created, "skipped", report.Skipped)
	return nil
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	if cfg.Seed.File != "" {
		if err := a.seed(ctx, cfg.Seed.File); err != nil {
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var authService *auth.Service
	if cfg.Auth.Enabled {
		authService = auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	opts := handler.RouterOptions{
		BasePath:           cfg.Server.BasePath,
		ExposeErrorDetails: !cfg.IsProduction(),
		Version:            Version,
		Metrics:            a.metrics,
		Auth:               authService,
		Logger:             a.logger,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
		opts.Gatherer = a.registry
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(a.services, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting",
			"addr", cfg.Server.Addr,
			"base_path", cfg.Server.BasePath,
			"store", cfg.Store.Driver,
			"auth", cfg.Auth.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func seedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Load resources from a YAML or JSON file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			return a.seed(cmd.Context(), args[0])
		},
	}
}
