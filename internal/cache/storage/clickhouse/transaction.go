package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const (
	transactionQuery = `
SELECT
	` + transactionColumns + `
FROM transactions FINAL
WHERE hash = ?
ORDER BY status ASC
LIMIT 1`

	transactionHashesByPaymentIDQuery = `
SELECT DISTINCT hash
FROM transactions FINAL
WHERE payment_id LIKE ?
ORDER BY hash`

	missingTransactionsQuery = `
SELECT
	` + transactionColumns + `
FROM transactions FINAL
WHERE status = ?
ORDER BY rand()
LIMIT ?`
)

// Transaction returns the stored payload of the transaction. Fetched rows win over
// placeholders for the same hash.
func (r *Repository) Transaction(ctx context.Context, hash string) (*model.TransactionPayload, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction", err, start)
	}()

	rows, err := r.queryTransactionRows(ctx, transactionQuery, hash)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", hash, err)
	}
	if len(rows) == 0 {
		err = fmt.Errorf("transaction %s: %w", hash, storage.ErrNotFound)
		return nil, err
	}
	return rows[0].Payload(), nil
}

// TransactionHashesByPaymentID returns hashes of transactions whose payment id matches the
// LIKE pattern.
func (r *Repository) TransactionHashesByPaymentID(ctx context.Context, pattern string) (hashes []string, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("transaction_hashes_by_payment_id", err, start)
	}()

	rows, err := r.conn.Query(ctx, transactionHashesByPaymentIDQuery, pattern)
	if err != nil {
		return nil, fmt.Errorf("query transactions by payment id: %w", err)
	}
	defer closeRows(rows, &err)

	hashes = make([]string, 0)
	for rows.Next() {
		var hash string
		if err = rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("scan transaction hash: %w", err)
		}
		hashes = append(hashes, hash)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction hashes: %w", err)
	}
	return hashes, nil
}

// MissingTransactions returns up to limit placeholders left by failed fetches in random order.
func (r *Repository) MissingTransactions(ctx context.Context, limit int) ([]model.TransactionRef, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("missing_transactions", err, start)
	}()

	if limit <= 0 {
		return []model.TransactionRef{}, nil
	}

	rows, err := r.queryTransactionRows(ctx, missingTransactionsQuery, string(model.TransactionMissing), uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("missing transactions: %w", err)
	}

	refs := make([]model.TransactionRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, row.Ref())
	}
	return refs, nil
}

func (r *Repository) queryTransactionRows(ctx context.Context, query string, args ...any) (result []storage.TransactionRow, err error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer closeRows(rows, &err)

	for rows.Next() {
		var row storage.TransactionRow
		if err = rows.ScanStruct(&row); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
