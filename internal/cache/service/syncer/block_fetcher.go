package syncer

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/pkg/workerpool"
	"go.uber.org/zap"
)

type blockFetcher struct {
	source Source
	logger *zap.Logger
}

// Fetch resolves height to a block and fetches every listed transaction concurrently.
// Failed transaction fetches are replaced with placeholders; cancellation aborts the height.
func (f *blockFetcher) Fetch(ctx context.Context, height uint64) (*FetchedBlock, error) {
	hash, err := f.source.BlockHash(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("fetch block hash at %d: %w", height, err)
	}

	block, err := f.source.Block(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetch block %d (%s): %w", height, hash, err)
	}
	block.Height = height
	if block.Hash == "" {
		block.Hash = hash
	}

	placeholders := 0
	txs, err := workerpool.Map(ctx, len(block.Transactions), block.Transactions,
		func(ctx context.Context, entry model.BlockTransaction) (model.Transaction, error) {
			tx, err := f.source.Transaction(ctx, entry.Hash)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return model.Transaction{}, ctxErr
				}
				f.logger.Warn("fetch transaction failed, storing placeholder",
					zap.Uint64("height", height),
					zap.String("tx", entry.Hash),
					zap.Error(err),
				)
				return model.NewMissingTransaction(entry.Hash, block.Hash), nil
			}
			if tx.Details.Hash == "" {
				tx.Details.Hash = entry.Hash
			}
			if tx.BlockHash == "" {
				tx.BlockHash = block.Hash
			}
			return tx, nil
		})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions of block %d: %w", height, err)
	}

	for _, tx := range txs {
		if tx.Status == model.TransactionMissing {
			placeholders++
		}
	}

	return &FetchedBlock{Block: block, Transactions: txs, Placeholders: placeholders}, nil
}
