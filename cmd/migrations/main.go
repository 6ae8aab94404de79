package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage/clickhouse"
	"github.com/goodnatureofminers/chaincache-backend/internal/config"
	"github.com/goodnatureofminers/chaincache-backend/internal/logging"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type options struct {
	Storage config.StorageOptions `group:"storage" namespace:"storage" env-namespace:"CHAINCACHE_STORAGE"`
	Log     config.LogOptions     `group:"log" namespace:"log" env-namespace:"CHAINCACHE_LOG"`
	Down    bool                  `long:"down" env:"MIGRATIONS_DOWN" description:"roll the clickhouse schema back instead of creating it"`
}

func main() {
	cfg := options{}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, "failed to parse flags:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Logging())
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(ctx, cfg, logger); err != nil {
		logger.Fatal("migration run failed", zap.Error(err))
	}
}

func runMigrations(ctx context.Context, cfg options, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if cfg.Down {
		return dropSchema(ctx, cfg.Storage, logger)
	}

	repo, err := config.OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	if err := repo.Close(); err != nil {
		logger.Warn("close storage failed", zap.Error(err))
	}
	logger.Info("schema is up to date", zap.String("engine", string(cfg.Storage.Engine)))
	return nil
}

func dropSchema(ctx context.Context, opts config.StorageOptions, logger *zap.Logger) error {
	if opts.Engine != config.EngineClickhouse {
		return fmt.Errorf("--down is only supported for the clickhouse engine, got %q", opts.Engine)
	}

	backend, err := config.NewStorage(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = backend.Close()
	}()

	repo, ok := backend.(*clickhouse.Repository)
	if !ok {
		return fmt.Errorf("unexpected backend %T", backend)
	}
	if err := repo.DropSchema(ctx); err != nil {
		return err
	}
	logger.Info("schema rolled back")
	return nil
}
