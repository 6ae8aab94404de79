package syncer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Source interface {
		Height(ctx context.Context) (uint64, error)
		BlockHash(ctx context.Context, height uint64) (string, error)
		Block(ctx context.Context, hash string) (model.Block, error)
		Transaction(ctx context.Context, hash string) (model.Transaction, error)
	}
	Repository interface {
		MaxHeight(ctx context.Context) (uint64, bool, error)
		SaveBlock(ctx context.Context, block model.Block) error
		SaveTransaction(ctx context.Context, tx model.Transaction) error
		MissingTransactions(ctx context.Context, limit int) ([]model.TransactionRef, error)
	}
	BlockFetcher interface {
		Fetch(ctx context.Context, height uint64) (*FetchedBlock, error)
	}
	BlockWriter interface {
		Write(ctx context.Context, block *FetchedBlock) error
	}

	EngineMetrics interface {
		ObserveCycle(outcome string, started time.Time)
		ObserveTip(tip uint64)
		ObserveStored(height uint64)
		ObservePlaceholders(n int)
	}
	BackfillMetrics interface {
		ObserveFetchMissing(err error, started time.Time)
		ObserveProcessBatch(err error, size int, started time.Time)
		ObserveProcessTransaction(err error, started time.Time)
	}
)

// FetchedBlock is one height worth of origin data ready to be written.
type FetchedBlock struct {
	Block        model.Block
	Transactions []model.Transaction
	Placeholders int
}
