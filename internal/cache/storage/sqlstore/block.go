package sqlstore

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

// Block returns the block with the given hash and its depth below the highest stored block.
func (r *Repository) Block(ctx context.Context, hash string) (*model.BlockDetail, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block", err, start)
	}()

	var row storage.BlockRow
	if err = r.db.WithContext(ctx).Where("hash = ?", hash).Take(&row).Error; err != nil {
		err = notFound(err, "block "+hash)
		return nil, err
	}

	maxInternal, err := r.maxInternalHeight(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := row.Detail(maxInternal)
	if err != nil {
		return nil, err
	}
	return detail, nil
}
