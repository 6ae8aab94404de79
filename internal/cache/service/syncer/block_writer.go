package syncer

import (
	"context"
	"fmt"
)

type blockWriter struct {
	repo Repository
}

// Write stores the transactions of the block, then the block row itself.
func (w *blockWriter) Write(ctx context.Context, fetched *FetchedBlock) error {
	for _, tx := range fetched.Transactions {
		if err := w.repo.SaveTransaction(ctx, tx); err != nil {
			return fmt.Errorf("save transaction %s of block %d: %w", tx.Hash(), fetched.Block.Height, err)
		}
	}
	if err := w.repo.SaveBlock(ctx, fetched.Block); err != nil {
		return fmt.Errorf("save block %d: %w", fetched.Block.Height, err)
	}
	return nil
}
