package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
)

const mysqlPartitions = 100

// CreateSchema creates the blocks and transactions tables and their indexes.
// On MySQL both tables are hash partitioned by key once.
func (r *Repository) CreateSchema(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("create_schema", err, start)
	}()

	db := r.db.WithContext(ctx)
	if err = db.AutoMigrate(&storage.BlockRow{}, &storage.TransactionRow{}); err != nil {
		return fmt.Errorf("migrate %s schema: %w", r.dialect, err)
	}

	if r.dialect != DialectMySQL {
		return nil
	}
	for _, table := range []string{storage.BlocksTable, storage.TransactionsTable} {
		if err = r.partitionMySQL(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) partitionMySQL(ctx context.Context, table string) error {
	var partitions int64
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(*)
FROM information_schema.partitions
WHERE table_schema = DATABASE() AND table_name = ? AND partition_name IS NOT NULL`, table).
		Scan(&partitions).Error
	if err != nil {
		return fmt.Errorf("inspect %s partitions: %w", table, err)
	}
	if partitions > 0 {
		return nil
	}

	stmt := fmt.Sprintf("ALTER TABLE `%s` PARTITION BY KEY() PARTITIONS %d", table, mysqlPartitions)
	if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("partition %s: %w", table, err)
	}
	return nil
}
