package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/service/syncer"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/turtlecoin"
	"github.com/goodnatureofminers/chaincache-backend/internal/config"
	"github.com/goodnatureofminers/chaincache-backend/internal/logging"
	"github.com/goodnatureofminers/chaincache-backend/internal/metrics"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	RPC         config.RPCOptions     `group:"rpc" namespace:"rpc" env-namespace:"CHAINCACHE_RPC"`
	Storage     config.StorageOptions `group:"storage" namespace:"storage" env-namespace:"CHAINCACHE_STORAGE"`
	Log         config.LogOptions     `group:"log" namespace:"log" env-namespace:"CHAINCACHE_LOG"`
	Sync        config.SyncOptions    `group:"sync" namespace:"sync" env-namespace:"CHAINCACHE_SYNC"`
	MetricsAddr string                `long:"metrics-addr" env:"CHAINCACHE_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := options{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
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

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("chain cache syncer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg options, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := config.OpenStorage(ctx, cfg.Storage, logger.Named("storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close storage failed", zap.Error(err))
		}
	}()

	client, err := turtlecoin.NewClient(cfg.RPC.Client(), metrics.NewRPCClient(cfg.RPC.Client().Endpoint()))
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	source := turtlecoin.NewSource(client)

	engine, err := syncer.NewEngine(repo, source, metrics.NewSyncer(), logger.Named("engine"), syncer.EngineConfig{
		UpdateInterval: cfg.Sync.UpdateInterval,
		BatchSize:      cfg.Sync.BatchSize,
		AutoStart:      true,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(ctx)
	})
	g.Go(func() error {
		logEvents(ctx, engine.Events(), logger.Named("events"))
		return nil
	})
	if cfg.Sync.Backfill {
		backfill, err := syncer.NewBackfillService(repo, source, metrics.NewTransactionBackfill(), logger.Named("backfill"))
		if err != nil {
			return err
		}
		g.Go(func() error {
			return backfill.Run(ctx)
		})
	}
	return g.Wait()
}

func logEvents(ctx context.Context, events <-chan syncer.Event, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev.Kind {
			case syncer.EventError:
				logger.Warn(ev.Message, zap.Uint64("height", ev.Height))
			case syncer.EventInfo:
				logger.Debug(ev.Message, zap.Uint64("height", ev.Height))
			default:
				logger.Info(ev.Message, zap.Stringer("kind", ev.Kind), zap.Uint64("height", ev.Height))
			}
		}
	}
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
