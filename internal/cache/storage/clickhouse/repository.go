// Package clickhouse implements the storage backend on ClickHouse. Replace semantics come from
// ReplacingMergeTree tables read with FINAL.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type Repository struct {
	conn    Conn
	dsn     string
	metrics Metrics
}

func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: conn, dsn: dsn, metrics: metrics}, nil
}

// Ping checks the server is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping clickhouse: %w", err)
	}
	return nil
}

// Close closes the connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}

var lastVersion atomic.Uint64

// version orders replacements of the same key inside ReplacingMergeTree. It follows the wall
// clock but never repeats or goes backwards within the process.
func version() uint64 {
	for {
		last := lastVersion.Load()
		next := uint64(time.Now().UnixNano())
		if next <= last {
			next = last + 1
		}
		if lastVersion.CompareAndSwap(last, next) {
			return next
		}
	}
}

func closeRows(rows Rows, err *error) {
	if closeErr := rows.Close(); closeErr != nil && *err == nil {
		*err = fmt.Errorf("close rows: %w", closeErr)
	}
}
