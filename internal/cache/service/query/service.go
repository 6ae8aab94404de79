// Package query serves reads over the stored chain.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"go.uber.org/zap"
)

// Service delegates reads to storage. LastBlockHeader is the one read checked against
// the live origin tip.
type Service struct {
	logger      *zap.Logger
	repo        Repository
	tip         TipSource
	maxDeviance uint64
}

func NewService(repo Repository, tip TipSource, maxDeviance uint64, logger *zap.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("query repository is required")
	}
	if tip == nil {
		return nil, errors.New("query tip source is required")
	}
	return &Service{
		logger:      logger,
		repo:        repo,
		tip:         tip,
		maxDeviance: maxDeviance,
	}, nil
}

func (s *Service) Blocks(ctx context.Context, height uint64) ([]model.BlockSummary, error) {
	return s.repo.Blocks(ctx, height)
}

func (s *Service) Block(ctx context.Context, hash string) (*model.BlockDetail, error) {
	return s.repo.Block(ctx, hash)
}

func (s *Service) Transaction(ctx context.Context, hash string) (*model.TransactionPayload, error) {
	return s.repo.Transaction(ctx, hash)
}

func (s *Service) TransactionHashesByPaymentID(ctx context.Context, pattern string) ([]string, error) {
	return s.repo.TransactionHashesByPaymentID(ctx, pattern)
}

// BlockCount returns the number of stored heights, counting the genesis block.
func (s *Service) BlockCount(ctx context.Context) (uint64, error) {
	height, ok, err := s.repo.MaxHeight(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return height + 1, nil
}

func (s *Service) BlockHash(ctx context.Context, height uint64) (string, error) {
	return s.repo.BlockHash(ctx, height)
}

// LastBlockHeader returns the highest stored header, or a StaleCacheError when it
// deviates from the origin tip by more than the configured threshold.
func (s *Service) LastBlockHeader(ctx context.Context) (*model.BlockHeader, error) {
	tip, err := s.tip.Height(ctx)
	if err != nil {
		return nil, fmt.Errorf("read origin tip: %w", err)
	}

	header, err := s.repo.LastBlockHeader(ctx)
	if err != nil {
		return nil, err
	}

	if deviance(tip, header.Height) > s.maxDeviance {
		s.logger.Debug("last header rejected as stale",
			zap.Uint64("tip", tip),
			zap.Uint64("cached", header.Height),
			zap.Uint64("max_deviance", s.maxDeviance),
		)
		return nil, &StaleCacheError{Tip: tip, Cached: header.Height, MaxDeviance: s.maxDeviance}
	}
	return header, nil
}

func (s *Service) BlockHeaderByHash(ctx context.Context, hash string) (*model.BlockHeader, error) {
	return s.repo.BlockHeaderByHash(ctx, hash)
}

func (s *Service) BlockHeaderByHeight(ctx context.Context, height uint64) (*model.BlockHeader, error) {
	return s.repo.BlockHeaderByHeight(ctx, height)
}

func deviance(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
