package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/opsdesk/incident-tracker/internal/config"
	"github.com/opsdesk/incident-tracker/internal/repository"
	pgstore "github.com/opsdesk/incident-tracker/internal/repository/postgres"
	sqlitestore "github.com/opsdesk/incident-tracker/internal/repository/sqlite"
)

// Stores bundles the storage interfaces behind the configured backend.
// The engine only ever sees repository.UserStore and repository.TicketStore.
type Stores struct {
	Users   repository.UserStore
	Tickets repository.TicketStore

	postgres *Postgres
	sqliteDB *sql.DB
}

// OpenStores opens the backend selected by STORAGE_DRIVER and returns
// the bound store interfaces.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Stores{
			Users:    pgstore.NewUserStore(pg.Pool),
			Tickets:  pgstore.NewTicketStore(pg.Pool),
			postgres: pg,
		}, nil

	case config.DriverSQLite:
		db, err := sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := sqlitestore.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("opened sqlite database", zap.String("path", cfg.SQLite.Path))
		return &Stores{
			Users:    sqlitestore.NewUserStore(db),
			Tickets:  sqlitestore.NewTicketStore(db),
			sqliteDB: db,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Ping verifies backend connectivity for readiness probes.
func (s *Stores) Ping(ctx context.Context) error {
	if s.postgres != nil {
		return s.postgres.Ping(ctx)
	}
	if s.sqliteDB != nil {
		return s.sqliteDB.PingContext(ctx)
	}
	return fmt.Errorf("no storage backend configured")
}

// Close releases backend resources.
func (s *Stores) Close() {
	if s.postgres != nil {
		s.postgres.Close()
	}
	if s.sqliteDB != nil {
		_ = s.sqliteDB.Close()
	}
}
