package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/clock"
	"github.com/goodnatureofminers/chaincache-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// BackfillService re-fetches transactions that were stored as placeholders.
type BackfillService struct {
	logger                 *zap.Logger
	metrics                BackfillMetrics
	repo                   Repository
	source                 Source
	sleep                  clock.SleepFunc
	idleSleepDuration      time.Duration
	postBatchSleepDuration time.Duration
	limit                  int
	workerCount            int
}

func NewBackfillService(
	repo Repository,
	source Source,
	metrics BackfillMetrics,
	logger *zap.Logger,
) (*BackfillService, error) {
	if repo == nil {
		return nil, errors.New("backfill repository is required")
	}
	if source == nil {
		return nil, errors.New("backfill source is required")
	}
	if metrics == nil {
		return nil, errors.New("backfill metrics is required")
	}

	return &BackfillService{
		logger:                 logger,
		metrics:                metrics,
		repo:                   repo,
		source:                 source,
		sleep:                  clock.SleepWithContext,
		idleSleepDuration:      idleSleepDuration,
		postBatchSleepDuration: postBatchSleepDuration,
		limit:                  backfillLimit,
		workerCount:            backfillWorkerCount,
	}, nil
}

func (s *BackfillService) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.idleSleepDuration))
			if sleepErr := s.sleep(ctx, s.idleSleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *BackfillService) run(ctx context.Context) error {
	started := time.Now()
	refs, err := s.repo.MissingTransactions(ctx, s.limit)
	s.metrics.ObserveFetchMissing(err, started)
	if err != nil {
		s.logger.Error("list placeholder transactions failed", zap.Error(err))
		return err
	}

	if len(refs) == 0 {
		s.logger.Debug("no placeholder transactions; going idle", zap.Duration("sleep", s.idleSleepDuration))
		return s.sleep(ctx, s.idleSleepDuration)
	}

	s.logger.Info("processing placeholders", zap.Int("count", len(refs)))
	started = time.Now()
	workers := s.workerCount
	if workers > len(refs) {
		workers = len(refs)
	}
	if err := workerpool.Process(ctx, workers, refs, s.processRef); err != nil {
		s.metrics.ObserveProcessBatch(err, len(refs), started)
		s.logger.Error("process placeholders failed", zap.Int("count", len(refs)), zap.Error(err))
		return err
	}
	s.metrics.ObserveProcessBatch(nil, len(refs), started)

	return s.sleep(ctx, s.postBatchSleepDuration)
}

// processRef re-fetches one placeholder. Origin failures leave the placeholder in place;
// only storage failures abort the batch.
func (s *BackfillService) processRef(ctx context.Context, ref model.TransactionRef) error {
	started := time.Now()
	tx, err := s.source.Transaction(ctx, ref.Hash)
	if err != nil {
		s.metrics.ObserveProcessTransaction(err, started)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("placeholder still unavailable", zap.String("tx", ref.Hash), zap.Error(err))
		return nil
	}
	if !tx.HasDetails() {
		s.metrics.ObserveProcessTransaction(nil, started)
		return nil
	}

	if tx.Details.Hash == "" {
		tx.Details.Hash = ref.Hash
	}
	tx.BlockHash = ref.BlockHash
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		err = fmt.Errorf("save transaction %s: %w", ref.Hash, err)
		s.metrics.ObserveProcessTransaction(err, started)
		return err
	}
	s.metrics.ObserveProcessTransaction(nil, started)
	return nil
}
