package turtlecoin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/pkg/safe"
)

// Source maps daemon responses to cache models.
type Source struct {
	client *Client
}

func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Height returns the daemon tip as a block count.
func (s *Source) Height(ctx context.Context) (uint64, error) {
	count, err := s.client.GetBlockCount(ctx)
	if err != nil {
		return 0, err
	}
	tip, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count: %w", err)
	}
	return tip, nil
}

// BlockHash returns the hash of the block at height.
func (s *Source) BlockHash(ctx context.Context, height uint64) (string, error) {
	return s.client.GetBlockHash(ctx, height)
}

// Block returns the block with the given hash.
func (s *Source) Block(ctx context.Context, hash string) (model.Block, error) {
	raw, err := s.client.GetBlock(ctx, hash)
	if err != nil {
		return model.Block{}, err
	}

	var block model.Block
	if err := json.Unmarshal(raw, &block); err != nil {
		return model.Block{}, fmt.Errorf("decode block %s: %w", hash, err)
	}
	if block.Transactions == nil {
		block.Transactions = []model.BlockTransaction{}
	}
	return block, nil
}

// Transaction returns the transaction with the given hash together with its raw sections.
// A response without a detail section yields a transaction that storage skips.
func (s *Source) Transaction(ctx context.Context, hash string) (model.Transaction, error) {
	res, err := s.client.GetTransaction(ctx, hash)
	if err != nil {
		return model.Transaction{}, err
	}

	tx := model.Transaction{
		Details:    model.TransactionDetails{Hash: hash},
		Status:     model.TransactionFetched,
		RawBlock:   res.Block,
		RawTx:      res.Tx,
		RawDetails: res.Details,
	}
	if !isEmpty(res.Details) {
		if err := json.Unmarshal(res.Details, &tx.Details); err != nil {
			return model.Transaction{}, fmt.Errorf("decode transaction %s details: %w", hash, err)
		}
		if tx.Details.Hash == "" {
			tx.Details.Hash = hash
		}
	}
	if !isEmpty(res.Block) {
		var owner struct {
			Hash string `json:"hash"`
		}
		if err := json.Unmarshal(res.Block, &owner); err != nil {
			return model.Transaction{}, fmt.Errorf("decode transaction %s block: %w", hash, err)
		}
		tx.BlockHash = owner.Hash
	}
	return tx, nil
}
