// Package cli assembles the registro command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/forzaops/registro/internal/config"
	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/forzaops/registro/internal/domain/backup"
	"github.com/forzaops/registro/internal/domain/selection"
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/forzaops/registro/internal/export"
	"github.com/forzaops/registro/internal/sqlite"
)

// App carries the wired services for one command invocation.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	DB        *sqlite.DB
	Tasks     *task.Service
	Activity  *activity.Service
	Backups   *backup.Engine
	Exports   *export.Service
	Selection *selection.Coordinator
}

// newApp loads configuration, opens storage and wires the domain
// services. transportMode, when non-empty, overrides the configured
// transport (the serve --transport flag). The startup migration
// (auto-archive + renumber) runs here so every command sees
// consistent collections.
func newApp(ctx context.Context, transportMode string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if transportMode != "" {
		if transportMode != "stdio" && transportMode != "http" {
			return nil, fmt.Errorf("invalid transport mode %q", transportMode)
		}
		cfg.Transport.Mode = transportMode
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := db.EnsureTheme(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to pin theme: %w", err)
	}

	taskRepo := sqlite.NewTaskRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	activitySvc := activity.NewService(activityRepo, logger)
	taskSvc := task.NewService(taskRepo, activitySvc, nil, logger)
	backupSvc := backup.NewEngine(taskSvc, activitySvc, cfg.Backup.Dir, logger)
	taskSvc.SetArchiver(backupSvc)
	exportSvc := export.NewService(taskSvc, activitySvc, logger)

	report, err := taskSvc.Load(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	logger.Info("collections loaded",
		"incidencias", report.Incidencias,
		"asignaciones", report.Asignaciones,
		"auto_archived", report.AutoArchived,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Tasks:     taskSvc,
		Activity:  activitySvc,
		Backups:   backupSvc,
		Exports:   exportSvc,
		Selection: selection.New(),
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
