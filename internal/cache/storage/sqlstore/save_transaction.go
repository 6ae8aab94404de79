package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveTransaction replaces the transaction row and, for fetched transactions, drops the
// placeholder stored for the same hash and block.
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

	err = r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("save transaction %s: %w", row.Hash, err)
		}
		if row.Status != string(model.TransactionFetched) {
			return nil
		}
		if err := db.
			Where("hash = ? AND block_hash = ? AND status = ?", row.Hash, row.BlockHash, string(model.TransactionMissing)).
			Delete(&storage.TransactionRow{}).Error; err != nil {
			return fmt.Errorf("drop placeholder %s: %w", row.Hash, err)
		}
		return nil
	})
	return err
}
