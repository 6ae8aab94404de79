// Package storage defines the persistence contract of the chain cache and the row mapping
// shared by every storage engine.
package storage

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

// ErrNotFound is returned by reads that match no stored row.
var ErrNotFound = errors.New("not found")

// BlocksPageSize bounds the number of summaries returned by Blocks.
const BlocksPageSize = 30

// Backend is the engine-agnostic contract every storage engine implements.
// Heights are external (zero-based) on both sides of the interface.
type Backend interface {
	// CreateSchema creates tables and indexes. It is safe to call on an initialized store.
	CreateSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// SaveBlock replaces the row keyed by (height, hash).
	SaveBlock(ctx context.Context, block model.Block) error
	// SaveTransaction replaces the row keyed by (hash, paymentId, blockHash). Fetched
	// transactions without a detail payload are skipped; a fetched transaction drops the
	// placeholder stored for the same (hash, blockHash).
	SaveTransaction(ctx context.Context, tx model.Transaction) error

	// MaxHeight returns the highest stored height; ok is false when no block is stored.
	MaxHeight(ctx context.Context) (height uint64, ok bool, err error)
	Blocks(ctx context.Context, height uint64) ([]model.BlockSummary, error)
	Block(ctx context.Context, hash string) (*model.BlockDetail, error)
	Transaction(ctx context.Context, hash string) (*model.TransactionPayload, error)
	TransactionHashesByPaymentID(ctx context.Context, pattern string) ([]string, error)
	BlockHash(ctx context.Context, height uint64) (string, error)
	LastBlockHeader(ctx context.Context) (*model.BlockHeader, error)
	BlockHeaderByHash(ctx context.Context, hash string) (*model.BlockHeader, error)
	BlockHeaderByHeight(ctx context.Context, height uint64) (*model.BlockHeader, error)
	MissingTransactions(ctx context.Context, limit int) ([]model.TransactionRef, error)
}
