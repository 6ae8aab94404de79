package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	"gorm.io/gorm"
)

// LastBlockHeader returns the header of the highest stored block.
func (r *Repository) LastBlockHeader(ctx context.Context) (*model.BlockHeader, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("last_block_header", err, start)
	}()

	header, err := r.header(r.db.WithContext(ctx).Order("height DESC"), "last block header")
	return header, err
}

// BlockHeaderByHash returns the header of the block with the given hash.
func (r *Repository) BlockHeaderByHash(ctx context.Context, hash string) (*model.BlockHeader, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_header_by_hash", err, start)
	}()

	header, err := r.header(r.db.WithContext(ctx).Where("hash = ?", hash), "block header "+hash)
	return header, err
}

// BlockHeaderByHeight returns the header of the block at the external height.
func (r *Repository) BlockHeaderByHeight(ctx context.Context, height uint64) (*model.BlockHeader, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_header_by_height", err, start)
	}()

	header, err := r.header(
		r.db.WithContext(ctx).Where("height = ?", storage.ToInternal(height)),
		fmt.Sprintf("block header at %d", height),
	)
	return header, err
}

func (r *Repository) header(query *gorm.DB, what string) (*model.BlockHeader, error) {
	var row storage.BlockRow
	if err := query.Take(&row).Error; err != nil {
		return nil, notFound(err, what)
	}
	return row.Header(), nil
}
