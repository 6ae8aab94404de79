// Package sqlstore implements the storage backend on relational engines through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultMaxOpenConns = 10

type Repository struct {
	db      *gorm.DB
	dialect Dialect
	metrics Metrics
}

// NewRepository opens the configured engine. The schema is not touched until CreateSchema.
func NewRepository(cfg Config, metrics Metrics) (*Repository, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get %s pool: %w", cfg.Dialect, err)
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return &Repository{db: db, dialect: cfg.Dialect, metrics: metrics}, nil
}

func openDialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Dialect {
	case DialectSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("sqlite path is required")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		return sqlite.Open(sqliteDSN(cfg.SQLitePath)), nil
	case DialectMySQL:
		dsn, err := cfg.MySQL.DSN()
		if err != nil {
			return nil, err
		}
		return gormmysql.Open(dsn), nil
	case DialectPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is required")
		}
		return postgres.Open(cfg.PostgresDSN), nil
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", cfg.Dialect)
	}
}

// Ping checks the engine is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get %s pool: %w", r.dialect, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", r.dialect, err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get %s pool: %w", r.dialect, err)
	}
	return sqlDB.Close()
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return fmt.Errorf("query %s: %w", what, err)
}
