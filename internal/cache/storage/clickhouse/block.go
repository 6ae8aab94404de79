package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

const blockByHashQuery = `
SELECT
	` + blockColumns + `
FROM blocks FINAL
WHERE hash = ?
LIMIT 1`

// Block returns the block with the given hash and its depth below the highest stored block.
func (r *Repository) Block(ctx context.Context, hash string) (*model.BlockDetail, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block", err, start)
	}()

	row, err := r.queryBlockRow(ctx, "block "+hash, blockByHashQuery, hash)
	if err != nil {
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
