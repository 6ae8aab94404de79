package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

var blocksQuery = fmt.Sprintf(`
SELECT
	%s
FROM blocks FINAL
WHERE height <= ?
ORDER BY height DESC
LIMIT %d`, blockColumns, storage.BlocksPageSize)

// Blocks returns up to storage.BlocksPageSize summaries at or below height, highest first.
func (r *Repository) Blocks(ctx context.Context, height uint64) ([]model.BlockSummary, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("blocks", err, start)
	}()

	rows, err := r.queryBlockRows(ctx, blocksQuery, storage.ToInternal(height))
	if err != nil {
		return nil, fmt.Errorf("blocks below %d: %w", height, err)
	}

	summaries := make([]model.BlockSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.Summary())
	}
	return summaries, nil
}

func (r *Repository) queryBlockRows(ctx context.Context, query string, args ...any) (result []storage.BlockRow, err error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer closeRows(rows, &err)

	for rows.Next() {
		var row storage.BlockRow
		if err = rows.ScanStruct(&row); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return result, nil
}

func (r *Repository) queryBlockRow(ctx context.Context, what, query string, args ...any) (storage.BlockRow, error) {
	rows, err := r.queryBlockRows(ctx, query, args...)
	if err != nil {
		return storage.BlockRow{}, fmt.Errorf("%s: %w", what, err)
	}
	if len(rows) == 0 {
		return storage.BlockRow{}, fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return rows[0], nil
}
