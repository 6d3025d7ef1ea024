// Package bootstrap opens the configured store and wires the application service
// for the server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resale-ledger/internal/ai"
	"resale-ledger/internal/app"
	"resale-ledger/internal/config"
	"resale-ledger/internal/core"
	"resale-ledger/internal/db"
	"resale-ledger/internal/metrics"
	"resale-ledger/internal/migrate"
	"resale-ledger/internal/repository/postgres"
	"resale-ledger/internal/repository/sqlite"
)

// OpenStore migrates and opens the store selected by cfg.Store.Driver. The
// returned func releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (core.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.Up(ctx, sqlDB, migrate.SQLite); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		log.Info("store opened", zap.String("driver", config.DriverSQLite), zap.String("path", cfg.Store.SQLitePath))
		return sqlite.New(sqlDB), func() { sqlDB.Close() }, nil

	case config.DriverPostgres:
		if err := migrate.UpPostgres(ctx, cfg.Store.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("store opened", zap.String("driver", config.DriverPostgres))
		store := postgres.New(pool)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewIntake returns the OpenAI intake agent, or nil when no API key is configured.
func NewIntake(cfg *config.Config, log *zap.Logger) ai.IntakeService {
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; sale intake is disabled")
		return nil
	}
	return ai.NewAgent(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
}

// NewAppService wires every domain service over store. m may be nil.
func NewAppService(cfg *config.Config, store core.Store, m *metrics.Metrics, log *zap.Logger) app.ApplicationService {
	svc := app.NewServices(store, cfg.Store.BcryptCost)
	return app.NewAppService(svc, NewIntake(cfg, log), m, log)
}
