package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const maxHeightQuery = `
SELECT max(height) AS max_height
FROM blocks`

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

func (r *Repository) maxInternalHeight(ctx context.Context) (height uint64, err error) {
	rows, err := r.conn.Query(ctx, maxHeightQuery)
	if err != nil {
		return 0, fmt.Errorf("query max height: %w", err)
	}
	defer closeRows(rows, &err)

	if !rows.Next() {
		return 0, fmt.Errorf("max height not found")
	}
	if err = rows.Scan(&height); err != nil {
		return 0, fmt.Errorf("scan max height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max height: %w", err)
	}
	return height, nil
}
