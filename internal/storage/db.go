package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config selects the driver and connection string.
type Config struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
	Seed   bool   `koanf:"seed"`
}

// Open connects to the configured database and wraps it in bun with the
// matching dialect. Queries are logged through logger at debug level.
func Open(cfg Config, logger *zap.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverSQLite:
		// In-memory databases vanish with their last connection, and shared
		// cache mode locks across connections; a single connection avoids both.
		if strings.Contains(cfg.DSN, ":memory:") || strings.Contains(cfg.DSN, "mode=memory") {
			sqldb.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db.AddQueryHook(&queryLogger{logger: logger})

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}

	return db, nil
}
