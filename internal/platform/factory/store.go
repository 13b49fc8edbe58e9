// Package factory wires configuration to concrete store drivers.
package factory

import (
	"fmt"

	"github.com/foldcms/fold/internal/config"
	"github.com/foldcms/fold/internal/store"
	"github.com/foldcms/fold/internal/store/postgres"
	"github.com/foldcms/fold/internal/store/sqlite"
)

// NewStore opens the store selected by cfg.DBDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite at %s: %w", cfg.SQLitePath, err)
		}
		return sqlite.NewWithDB(db)
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.NewWithDB(db)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", cfg.DBDriver)
	}
}
