package query

import (
	"context"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		MaxHeight(ctx context.Context) (uint64, bool, error)
		Blocks(ctx context.Context, height uint64) ([]model.BlockSummary, error)
		Block(ctx context.Context, hash string) (*model.BlockDetail, error)
		Transaction(ctx context.Context, hash string) (*model.TransactionPayload, error)
		TransactionHashesByPaymentID(ctx context.Context, pattern string) ([]string, error)
		BlockHash(ctx context.Context, height uint64) (string, error)
		LastBlockHeader(ctx context.Context) (*model.BlockHeader, error)
		BlockHeaderByHash(ctx context.Context, hash string) (*model.BlockHeader, error)
		BlockHeaderByHeight(ctx context.Context, height uint64) (*model.BlockHeader, error)
	}
	TipSource interface {
		Height(ctx context.Context) (uint64, error)
	}
)
