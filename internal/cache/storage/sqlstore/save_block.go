package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	"gorm.io/gorm/clause"
)

// SaveBlock replaces the block row keyed by (height, hash).
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

	if err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("save block %d: %w", block.Height, err)
	}
	return nil
}
