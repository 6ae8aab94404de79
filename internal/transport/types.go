package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Queries interface {
		Blocks(ctx context.Context, height uint64) ([]model.BlockSummary, error)
		Block(ctx context.Context, hash string) (*model.BlockDetail, error)
		Transaction(ctx context.Context, hash string) (*model.TransactionPayload, error)
		TransactionHashesByPaymentID(ctx context.Context, pattern string) ([]string, error)
		BlockCount(ctx context.Context) (uint64, error)
		BlockHash(ctx context.Context, height uint64) (string, error)
		LastBlockHeader(ctx context.Context) (*model.BlockHeader, error)
		BlockHeaderByHash(ctx context.Context, hash string) (*model.BlockHeader, error)
		BlockHeaderByHeight(ctx context.Context, height uint64) (*model.BlockHeader, error)
	}
	HealthChecker interface {
		Ping(ctx context.Context) error
	}
	Metrics interface {
		Observe(route string, code int, started time.Time)
	}
)
