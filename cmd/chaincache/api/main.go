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

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/service/query"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/turtlecoin"
	"github.com/goodnatureofminers/chaincache-backend/internal/config"
	"github.com/goodnatureofminers/chaincache-backend/internal/logging"
	"github.com/goodnatureofminers/chaincache-backend/internal/metrics"
	"github.com/goodnatureofminers/chaincache-backend/internal/transport"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type options struct {
	RPC         config.RPCOptions     `group:"rpc" namespace:"rpc" env-namespace:"CHAINCACHE_RPC"`
	Storage     config.StorageOptions `group:"storage" namespace:"storage" env-namespace:"CHAINCACHE_STORAGE"`
	Log         config.LogOptions     `group:"log" namespace:"log" env-namespace:"CHAINCACHE_LOG"`
	Addr        string                `long:"addr" env:"CHAINCACHE_API_ADDR" description:"read API address" default:":8001"`
	MaxDeviance uint64                `long:"max-deviance" env:"CHAINCACHE_MAX_DEVIANCE" description:"max distance between origin tip and cached head for the last header query" default:"5"`
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

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("chain cache api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg options, logger *zap.Logger) error {
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

	queries, err := query.NewService(repo, turtlecoin.NewSource(client), cfg.MaxDeviance, logger.Named("query"))
	if err != nil {
		return err
	}
	handler, err := transport.NewHandler(queries, repo, metrics.NewHTTPServer(), logger.Named("http"))
	if err != nil {
		return err
	}

	router := handler.Router()
	router.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors.Default().Handler(router),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
