package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

// Blocks returns up to storage.BlocksPageSize summaries at or below height, highest first.
func (r *Repository) Blocks(ctx context.Context, height uint64) ([]model.BlockSummary, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("blocks", err, start)
	}()

	var rows []storage.BlockRow
	if err = r.db.WithContext(ctx).
		Where("height <= ?", storage.ToInternal(height)).
		Order("height DESC").
		Limit(storage.BlocksPageSize).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query blocks below %d: %w", height, err)
	}

	summaries := make([]model.BlockSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.Summary())
	}
	return summaries, nil
}
