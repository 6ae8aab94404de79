package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

// Transaction returns the stored payload of the transaction. Fetched rows win over
// placeholders for the same hash.
func (r *Repository) Transaction(ctx context.Context, hash string) (*model.TransactionPayload, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction", err, start)
	}()

	var row storage.TransactionRow
	if err = r.db.WithContext(ctx).
		Where("hash = ?", hash).
		Order("status ASC").
		Take(&row).Error; err != nil {
		err = notFound(err, "transaction "+hash)
		return nil, err
	}
	return row.Payload(), nil
}

// TransactionHashesByPaymentID returns hashes of transactions whose payment id matches the
// LIKE pattern.
func (r *Repository) TransactionHashesByPaymentID(ctx context.Context, pattern string) ([]string, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_hashes_by_payment_id", err, start)
	}()

	hashes := make([]string, 0)
	if err = r.db.WithContext(ctx).
		Model(&storage.TransactionRow{}).
		Where("payment_id LIKE ?", pattern).
		Distinct("hash").
		Order("hash").
		Pluck("hash", &hashes).Error; err != nil {
		return nil, fmt.Errorf("query transactions by payment id: %w", err)
	}
	return hashes, nil
}

// MissingTransactions returns up to limit placeholders left by failed fetches, picked in
// random order so unfetchable ones cannot hide the rest.
func (r *Repository) MissingTransactions(ctx context.Context, limit int) ([]model.TransactionRef, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("missing_transactions", err, start)
	}()

	var rows []storage.TransactionRow
	if err = r.db.WithContext(ctx).
		Select("hash", "block_hash").
		Where("status = ?", string(model.TransactionMissing)).
		Order(r.randomOrder()).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query missing transactions: %w", err)
	}

	refs := make([]model.TransactionRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, row.Ref())
	}
	return refs, nil
}

func (r *Repository) randomOrder() string {
	if r.dialect == DialectMySQL {
		return "RAND()"
	}
	return "RANDOM()"
}
