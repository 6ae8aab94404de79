package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const (
	saveTransactionQuery = `
INSERT INTO transactions (
	` + transactionColumns + `,
	version
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	dropPlaceholderQuery = `
DELETE FROM transactions
WHERE hash = ? AND block_hash = ? AND status = ?`
)

// SaveTransaction inserts a new version of the transaction row. A fetched transaction drops
// the placeholder stored for the same hash and block.
func (r *Repository) SaveTransaction(ctx context.Context, tx model.Transaction) error {
	row, ok := storage.NewTransactionRow(tx)
	if !ok {
		return nil
	}

	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("save_transaction", err, start)
	}()

	if err = r.conn.Exec(ctx, saveTransactionQuery,
		row.Hash,
		row.PaymentID,
		row.BlockHash,
		row.Mixin,
		row.Size,
		row.Fee,
		row.AmountOut,
		row.Status,
		row.RawBlock,
		row.RawTx,
		row.RawDetails,
		version(),
	); err != nil {
		return fmt.Errorf("insert transaction %s: %w", row.Hash, err)
	}

	if row.Status != string(model.TransactionFetched) {
		return nil
	}
	if err = r.conn.Exec(ctx, dropPlaceholderQuery, row.Hash, row.BlockHash, string(model.TransactionMissing)); err != nil {
		return fmt.Errorf("drop placeholder %s: %w", row.Hash, err)
	}
	return nil
}
