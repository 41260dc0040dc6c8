// Command featureprep builds the disaster feature table.
//
// Usage:
//
//	featureprep          build once, print a preview, save the table
//	featureprep serve    serve feature tables over HTTP
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/featureprep/internal/config"
	"github.com/JonMunkholm/featureprep/internal/core"
	"github.com/JonMunkholm/featureprep/internal/logging"
	"github.com/JonMunkholm/featureprep/internal/project"
	"github.com/JonMunkholm/featureprep/internal/store"
	"github.com/JonMunkholm/featureprep/internal/web"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("ignoring .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "run":
		err = runOnce(ctx, cfg, os.Stdout)
	case "serve":
		err = serve(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [run|serve]\n", os.Args[0])
		os.Exit(2)
	}

	if err != nil {
		slog.Error("featureprep failed",
			"error", err,
			"code", core.MapError(err).Code,
		)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}

// runOnce builds the feature table, prints a preview to w and stores the
// result according to cfg.
func runOnce(ctx context.Context, cfg *config.Config, w io.Writer) error {
	paths := project.Resolve(cfg.Project.Root)
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	t, err := core.NewPipeline(paths).BuildFeatureTable(ctx, cfg.Project.RawFilename, cfg.Project.TargetColumn)
	if err != nil {
		return err
	}

	if err := core.WritePreview(w, t, cfg.Project.PreviewRows); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	if cfg.Project.WriteProcessed {
		path, err := core.SaveProcessed(paths, cfg.Project.RawFilename, t)
		if err != nil {
			return err
		}
		logger.Info("processed table written", "path", path)
	}

	if !cfg.Database.Enabled() {
		return nil
	}

	pool, err := openPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := store.New(pool, cfg.Database.FeatureTable).Save(ctx, runID, t); err != nil {
		return fmt.Errorf("persist feature table: %w", err)
	}
	return nil
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config) error {
	pipeline := core.NewPipeline(project.Resolve(cfg.Project.Root))
	server := web.NewServer(pipeline, web.Defaults{
		RawFilename:  cfg.Project.RawFilename,
		TargetColumn: cfg.Project.TargetColumn,
		PreviewRows:  cfg.Project.PreviewRows,
	}, cfg.Server)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout())
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	err := server.Start(cfg.Server.Addr())
	if errors.Is(err, http.ErrServerClosed) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// openPool connects to PostgreSQL and verifies the connection.
func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
