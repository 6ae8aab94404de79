package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const (
	lastBlockHeaderQuery = `
SELECT
	` + blockColumns + `
FROM blocks FINAL
ORDER BY height DESC
LIMIT 1`

	blockHeaderByHeightQuery = `
SELECT
	` + blockColumns + `
FROM blocks FINAL
WHERE height = ?
LIMIT 1`
)

// LastBlockHeader returns the header of the highest stored block.
func (r *Repository) LastBlockHeader(ctx context.Context) (*model.BlockHeader, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("last_block_header", err, start)
	}()

	row, err := r.queryBlockRow(ctx, "last block header", lastBlockHeaderQuery)
	if err != nil {
		return nil, err
	}
	return row.Header(), nil
}

// BlockHeaderByHash returns the header of the block with the given hash.
func (r *Repository) BlockHeaderByHash(ctx context.Context, hash string) (*model.BlockHeader, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_header_by_hash", err, start)
	}()

	row, err := r.queryBlockRow(ctx, "block header "+hash, blockByHashQuery, hash)
	if err != nil {
		return nil, err
	}
	return row.Header(), nil
}

// BlockHeaderByHeight returns the header of the block at the external height.
func (r *Repository) BlockHeaderByHeight(ctx context.Context, height uint64) (*model.BlockHeader, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_header_by_height", err, start)
	}()

	row, err := r.queryBlockRow(ctx, fmt.Sprintf("block header at %d", height), blockHeaderByHeightQuery, storage.ToInternal(height))
	if err != nil {
		return nil, err
	}
	return row.Header(), nil
}
