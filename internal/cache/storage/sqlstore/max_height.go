package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

// MaxHeight returns the highest stored external height.
func (r *Repository) MaxHeight(ctx context.Context) (uint64, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_height", err, start)
	}()

	internal, err := r.maxInternalHeight(ctx)
	if err != nil {
		return 0, false, err
	}
	height, ok := storage.ToExternal(internal)
	return height, ok, nil
}

func (r *Repository) maxInternalHeight(ctx context.Context) (uint64, error) {
	var internal uint64
	if err := r.db.WithContext(ctx).
		Model(&storage.BlockRow{}).
		Select("COALESCE(MAX(height), 0)").
		Scan(&internal).Error; err != nil {
		return 0, fmt.Errorf("query max height: %w", err)
	}
	return internal, nil
}
