package config

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage/clickhouse"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage/sqlstore"
	"github.com/goodnatureofminers/chaincache-backend/internal/clock"
	"github.com/goodnatureofminers/chaincache-backend/internal/metrics"
	"go.uber.org/zap"
)

// NewStorage constructs the backend selected by opts without touching the network.
func NewStorage(opts StorageOptions) (storage.Backend, error) {
	engineMetrics := metrics.NewStorageRepository(string(opts.Engine))
	switch opts.Engine {
	case EngineClickhouse:
		repo, err := clickhouse.NewRepository(opts.ClickhouseDSN, engineMetrics)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case EngineSQLite, EngineMySQL, EnginePostgres:
		repo, err := sqlstore.NewRepository(opts.SQL(), engineMetrics)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported storage engine %q", opts.Engine)
	}
}

// OpenStorage connects to the selected backend, retrying the connection check, and creates
// the schema. Any error is fatal to the caller.
func OpenStorage(ctx context.Context, opts StorageOptions, logger *zap.Logger) (storage.Backend, error) {
	backend, err := NewStorage(opts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	if err := connect(ctx, backend, opts, clock.SleepWithContext, logger); err != nil {
		_ = backend.Close()
		return nil, err
	}

	if err := backend.CreateSchema(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Info("storage ready", zap.String("engine", string(opts.Engine)))
	return backend, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func connect(ctx context.Context, backend pinger, opts StorageOptions, sleep clock.SleepFunc, logger *zap.Logger) error {
	err := clock.Retry(ctx, opts.ConnectTries, opts.ConnectDelay, sleep, backend.Ping, func(attempt int, err error) {
		logger.Warn("storage not reachable, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("sleep", opts.ConnectDelay),
			zap.Error(err),
		)
	})
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	return nil
}
