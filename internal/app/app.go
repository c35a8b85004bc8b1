package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/liketagger/backend/internal/config"
	"github.com/liketagger/backend/internal/db"
	"github.com/liketagger/backend/internal/handlers"
	"github.com/liketagger/backend/internal/httpserver"
	"github.com/liketagger/backend/internal/logging"
	"github.com/liketagger/backend/internal/middleware"
	"github.com/liketagger/backend/internal/repositories"
	"github.com/liketagger/backend/internal/snapshot"
)

// Run bootstraps the LikeTagger backend.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, seed, or export")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:])
	case "seed":
		return runSeed(ctx, args[1:])
	case "export":
		return runExport(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func setupLogger(cfg config.Config) (*slog.Logger, func()) {
	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	slog.SetDefault(logger)
	return logger, func() { _ = closer.Close() }
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog := setupLogger(cfg)
	defer closeLog()
	ctx = logging.WithLogger(ctx, logger)

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	deps := buildDependencies(pool, cfg)

	if cfg.ExportSchedule != "" {
		stop, err := scheduleExports(ctx, cfg, repositories.NewPostgresStore(pool))
		if err != nil {
			return err
		}
		defer stop()
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	handler := middleware.RequestLogger(logger)(mux)

	srv := httpserver.New(cfg.AppPort, handler)

	listener, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr(), err)
	}

	logger.Info("starting http server", "addr", listener.Addr().String())

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Serve(listener)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func scheduleExports(ctx context.Context, cfg config.Config, source snapshot.Source) (func(), error) {
	if !cfg.ObjectStore.Enabled() {
		logging.FromContext(ctx).Warn("export schedule set without an object store bucket, exports disabled")
		return func() {}, nil
	}

	exporter, err := buildExporter(ctx, cfg, source)
	if err != nil {
		return nil, err
	}
	return snapshot.Schedule(ctx, cfg.ExportSchedule, exporter)
}

func runExport(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.ObjectStore.Enabled() {
		return errors.New("export requires LIKETAGGER_S3_BUCKET")
	}

	logger, closeLog := setupLogger(cfg)
	defer closeLog()
	ctx = logging.WithLogger(ctx, logger)

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	exporter, err := buildExporter(ctx, cfg, repositories.NewPostgresStore(pool))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, snapshot.ExportTimeout)
	defer cancel()

	location, err := exporter.Export(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("exported snapshot to %s\n", location)
	return nil
}
