package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
		Exec(ctx context.Context, query string, args ...any) error
		Ping(ctx context.Context) error
		Close() error
	}
	Rows interface {
		driver.Rows
	}
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
