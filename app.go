package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ekaya-inc/shiftlog/pkg/config"
	"github.com/ekaya-inc/shiftlog/pkg/database"
	"github.com/ekaya-inc/shiftlog/pkg/handlers"
	"github.com/ekaya-inc/shiftlog/pkg/logging"
	"github.com/ekaya-inc/shiftlog/pkg/metrics"
	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/repositories"
	"github.com/ekaya-inc/shiftlog/pkg/services"
	"github.com/ekaya-inc/shiftlog/pkg/shiftclock"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *database.DB // nil for the memory backend
	clock   *shiftclock.Clock
	metrics *metrics.Registry
	service services.HandoverService
}

// newLogger builds a development logger for local runs and a JSON
// production logger everywhere else, at the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	if cfg.Env == "local" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	// Keep stdout for report output; logs go to stderr.
	zcfg.OutputPaths = []string{"stderr"}

	return zcfg.Build()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		clock:   shiftclock.New(cfg.Facility.Location()),
		metrics: metrics.NewRegistry(),
	}

	var (
		notes    repositories.NoteRepository
		readings repositories.ReadingRepository
		ranges   repositories.RangeRepository
	)

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		connStr := cfg.Database.ConnectionString()
		logger.Info("Connecting to database", zap.String("url", logging.SanitizeConnectionString(connStr)))

		db, err := database.NewConnection(ctx, &database.Config{
			URL:            connStr,
			MaxConnections: cfg.Database.MaxConnections,
		})
		if err != nil {
			return nil, err
		}
		if err := database.MigratePool(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		notes = repositories.NewNoteRepository(db)
		readings = repositories.NewReadingRepository(db)
		ranges = repositories.NewRangeRepository(db)
	default:
		logger.Info("Using in-memory storage; notes and readings are lost on exit")
		notes = repositories.NewMemoryNoteRepository()
		readings = repositories.NewMemoryReadingRepository()
		ranges = repositories.NewMemoryRangeRepository()
	}

	overlay, err := config.LoadRangeOverlay(cfg.RangesFile)
	if err != nil {
		a.close()
		return nil, err
	}
	registry := services.NewRangeRegistry(ranges, overlay.ApplyDefaults(models.DefaultRanges()), a.metrics, logger)
	if _, err := registry.Seed(ctx, overlay.Overrides()); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to seed range overrides: %w", err)
	}

	a.service = services.NewHandoverService(a.clock, notes, readings, registry, a.metrics, logger)
	return a, nil
}

// pinger returns the database as a health Pinger, or nil for memory storage.
func (a *app) pinger() handlers.Pinger {
	if a.db == nil {
		return nil
	}
	return a.db
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
