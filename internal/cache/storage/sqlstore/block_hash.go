package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

// BlockHash returns the hash stored at the external height.
func (r *Repository) BlockHash(ctx context.Context, height uint64) (string, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_hash", err, start)
	}()

	var row storage.BlockRow
	if err = r.db.WithContext(ctx).
		Select("hash").
		Where("height = ?", storage.ToInternal(height)).
		Take(&row).Error; err != nil {
		err = notFound(err, fmt.Sprintf("block hash at %d", height))
		return "", err
	}
	return row.Hash, nil
}
