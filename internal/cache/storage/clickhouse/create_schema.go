package clickhouse

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// CreateSchema applies the embedded migrations.
func (r *Repository) CreateSchema(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("create_schema", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.migrate(func(m *migrate.Migrate) error {
		return m.Up()
	})
	return err
}

// DropSchema rolls every embedded migration back.
func (r *Repository) DropSchema(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("drop_schema", err, start)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.migrate(func(m *migrate.Migrate) error {
		return m.Down()
	})
	return err
}

func (r *Repository) migrate(step func(m *migrate.Migrate) error) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, withMultiStatement(r.dsn))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		_ = closeMigrator(m)
	}()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func withMultiStatement(dsn string) string {
	if strings.Contains(dsn, "x-multi-statement=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "x-multi-statement=true"
}

func closeMigrator(m *migrate.Migrate) error {
	if m == nil {
		return nil
	}
	sourceErr, dbErr := m.Close()
	if sourceErr != nil && dbErr != nil {
		return fmt.Errorf("close migrator: source: %v; database: %v", sourceErr, dbErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("close migrator: source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migrator: database: %w", dbErr)
	}
	return nil
}
