package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const blockHashQuery = `
SELECT hash
FROM blocks FINAL
WHERE height = ?
LIMIT 1`

// BlockHash returns the hash stored at the external height.
func (r *Repository) BlockHash(ctx context.Context, height uint64) (hash string, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_hash", err, start)
	}()

	rows, err := r.conn.Query(ctx, blockHashQuery, storage.ToInternal(height))
	if err != nil {
		return "", fmt.Errorf("query block hash at %d: %w", height, err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return "", fmt.Errorf("iterate block hash at %d: %w", height, err)
		}
		return "", fmt.Errorf("block hash at %d: %w", height, storage.ErrNotFound)
	}
	if err = rows.Scan(&hash); err != nil {
		return "", fmt.Errorf("scan block hash at %d: %w", height, err)
	}
	return hash, nil
}
