package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const saveBlockQuery = `
INSERT INTO blocks (
	` + blockColumns + `,
	version
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveBlock inserts a new version of the block row keyed by (height, hash).
func (r *Repository) SaveBlock(ctx context.Context, block model.Block) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("save_block", err, start)
	}()

	row, err := storage.NewBlockRow(block)
	if err != nil {
		return err
	}

	if err = r.conn.Exec(ctx, saveBlockQuery,
		row.Height,
		row.Hash,
		row.PrevHash,
		row.Difficulty,
		row.Nonce,
		row.MajorVersion,
		row.MinorVersion,
		row.BlockSize,
		row.SizeMedian,
		row.EffectiveSizeMedian,
		row.TransactionsCumulativeSize,
		row.BaseReward,
		row.Reward,
		row.Penalty,
		row.AlreadyGeneratedCoins,
		row.AlreadyGeneratedTransactions,
		row.TotalFeeAmount,
		row.OrphanStatus,
		row.Timestamp,
		row.TxCount,
		row.Transactions,
		version(),
	); err != nil {
		return fmt.Errorf("insert block %d: %w", block.Height, err)
	}
	return nil
}
