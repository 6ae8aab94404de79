package storagetest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

// Hash returns a deterministic 64 character hex-like hash for seed.
func Hash(seed string) string {
	return strings.Repeat(seed, 64/len(seed)+1)[:64]
}

// NewBlock returns a block at the external height with txCount listed transactions.
func NewBlock(height uint64, txCount int) model.Block {
	hash := Hash(fmt.Sprintf("b%d", height))
	prev := Hash("0")
	if height > 0 {
		prev = Hash(fmt.Sprintf("b%d", height-1))
	}

	txs := make([]model.BlockTransaction, 0, txCount)
	for i := 0; i < txCount; i++ {
		txs = append(txs, model.BlockTransaction{
			Hash:      Hash(fmt.Sprintf("t%d_%d", height, i)),
			Fee:       10,
			AmountOut: 1000 + uint64(i),
			Size:      200,
		})
	}

	return model.Block{
		Height:                       height,
		Hash:                         hash,
		PrevHash:                     prev,
		Difficulty:                   250000 + height,
		Nonce:                        42,
		MajorVersion:                 4,
		MinorVersion:                 0,
		BlockSize:                    400 + height,
		SizeMedian:                   300,
		EffectiveSizeMedian:          100000,
		TransactionsCumulativeSize:   200 * uint64(txCount),
		BaseReward:                   2949000,
		Reward:                       2949000 + 10*uint64(txCount),
		Penalty:                      0,
		AlreadyGeneratedCoins:        "18446744073709551616123",
		AlreadyGeneratedTransactions: 1000 + height,
		TotalFeeAmount:               10 * uint64(txCount),
		OrphanStatus:                 false,
		Timestamp:                    1513031505 + 30*height,
		Transactions:                 txs,
	}
}

// NewTransaction returns a fetched transaction owned by blockHash.
func NewTransaction(hash, blockHash, paymentID string) model.Transaction {
	details := model.TransactionDetails{
		Hash:      hash,
		PaymentID: paymentID,
		Mixin:     3,
		Size:      250,
		Fee:       10,
		AmountOut: 5000,
	}
	rawDetails, _ := json.Marshal(details)
	rawBlock, _ := json.Marshal(map[string]any{"hash": blockHash, "height": 1})
	rawTx, _ := json.Marshal(map[string]any{"version": 1, "unlock_time": 0})

	return model.Transaction{
		Details:    details,
		BlockHash:  blockHash,
		Status:     model.TransactionFetched,
		RawBlock:   rawBlock,
		RawTx:      rawTx,
		RawDetails: rawDetails,
	}
}
