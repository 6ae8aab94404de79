package storage

import (
	"encoding/json"
	"fmt"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
)

const (
	BlocksTable       = "blocks"
	TransactionsTable = "transactions"
)

// emptyPayload is stored in place of raw payloads a placeholder transaction does not have.
const emptyPayload = "{}"

// BlockRow is the stored shape of a block. Height holds the internal (shifted) height.
type BlockRow struct {
	Height                       uint64  `gorm:"column:height;primaryKey;autoIncrement:false" ch:"height"`
	Hash                         string  `gorm:"column:hash;primaryKey;size:64" ch:"hash"`
	PrevHash                     string  `gorm:"column:prev_hash;size:64;not null" ch:"prev_hash"`
	Difficulty                   uint64  `gorm:"column:difficulty;not null" ch:"difficulty"`
	Nonce                        uint64  `gorm:"column:nonce;not null" ch:"nonce"`
	MajorVersion                 uint64  `gorm:"column:major_version;not null" ch:"major_version"`
	MinorVersion                 uint64  `gorm:"column:minor_version;not null" ch:"minor_version"`
	BlockSize                    uint64  `gorm:"column:block_size;not null" ch:"block_size"`
	SizeMedian                   uint64  `gorm:"column:size_median;not null" ch:"size_median"`
	EffectiveSizeMedian          uint64  `gorm:"column:effective_size_median;not null" ch:"effective_size_median"`
	TransactionsCumulativeSize   uint64  `gorm:"column:transactions_cumulative_size;not null" ch:"transactions_cumulative_size"`
	BaseReward                   uint64  `gorm:"column:base_reward;not null" ch:"base_reward"`
	Reward                       uint64  `gorm:"column:reward;not null" ch:"reward"`
	Penalty                      float64 `gorm:"column:penalty;not null" ch:"penalty"`
	AlreadyGeneratedCoins        string  `gorm:"column:already_generated_coins;size:64;not null" ch:"already_generated_coins"`
	AlreadyGeneratedTransactions uint64  `gorm:"column:already_generated_transactions;not null" ch:"already_generated_transactions"`
	TotalFeeAmount               uint64  `gorm:"column:total_fee_amount;not null" ch:"total_fee_amount"`
	OrphanStatus                 bool    `gorm:"column:orphan_status;not null" ch:"orphan_status"`
	Timestamp                    uint64  `gorm:"column:timestamp;not null;index:idx_blocks_timestamp" ch:"timestamp"`
	TxCount                      uint64  `gorm:"column:tx_count;not null" ch:"tx_count"`
	Transactions                 string  `gorm:"column:transactions;not null" ch:"transactions"`
}

// TableName implements gorm's tabler.
func (BlockRow) TableName() string {
	return BlocksTable
}

// TransactionRow is the stored shape of a transaction.
type TransactionRow struct {
	Hash       string `gorm:"column:hash;primaryKey;size:64" ch:"hash"`
	PaymentID  string `gorm:"column:payment_id;primaryKey;size:64;index:idx_transactions_payment_id" ch:"payment_id"`
	BlockHash  string `gorm:"column:block_hash;primaryKey;size:64;index:idx_transactions_block_hash" ch:"block_hash"`
	Mixin      uint64 `gorm:"column:mixin;not null" ch:"mixin"`
	Size       uint64 `gorm:"column:size;not null" ch:"size"`
	Fee        uint64 `gorm:"column:fee;not null" ch:"fee"`
	AmountOut  uint64 `gorm:"column:amount_out;not null" ch:"amount_out"`
	Status     string `gorm:"column:status;size:16;not null;index:idx_transactions_status" ch:"status"`
	RawBlock   string `gorm:"column:block;not null" ch:"block"`
	RawTx      string `gorm:"column:tx;not null" ch:"tx"`
	RawDetails string `gorm:"column:tx_details;not null" ch:"tx_details"`
}

// TableName implements gorm's tabler.
func (TransactionRow) TableName() string {
	return TransactionsTable
}

// NewBlockRow maps a block to its stored row.
func NewBlockRow(b model.Block) (BlockRow, error) {
	txs := b.Transactions
	if txs == nil {
		txs = []model.BlockTransaction{}
	}
	encoded, err := json.Marshal(txs)
	if err != nil {
		return BlockRow{}, fmt.Errorf("encode block %s transactions: %w", b.Hash, err)
	}
	return BlockRow{
		Height:                       ToInternal(b.Height),
		Hash:                         b.Hash,
		PrevHash:                     b.PrevHash,
		Difficulty:                   b.Difficulty,
		Nonce:                        b.Nonce,
		MajorVersion:                 b.MajorVersion,
		MinorVersion:                 b.MinorVersion,
		BlockSize:                    b.BlockSize,
		SizeMedian:                   b.SizeMedian,
		EffectiveSizeMedian:          b.EffectiveSizeMedian,
		TransactionsCumulativeSize:   b.TransactionsCumulativeSize,
		BaseReward:                   b.BaseReward,
		Reward:                       b.Reward,
		Penalty:                      b.Penalty,
		AlreadyGeneratedCoins:        b.AlreadyGeneratedCoins,
		AlreadyGeneratedTransactions: b.AlreadyGeneratedTransactions,
		TotalFeeAmount:               b.TotalFeeAmount,
		OrphanStatus:                 b.OrphanStatus,
		Timestamp:                    b.Timestamp,
		TxCount:                      uint64(len(txs)),
		Transactions:                 string(encoded),
	}, nil
}

// ExternalHeight returns the external height of the row.
func (r BlockRow) ExternalHeight() uint64 {
	h, _ := ToExternal(r.Height)
	return h
}

// Block maps the row back to a block.
func (r BlockRow) Block() (model.Block, error) {
	var txs []model.BlockTransaction
	if err := json.Unmarshal([]byte(r.Transactions), &txs); err != nil {
		return model.Block{}, fmt.Errorf("decode block %s transactions: %w", r.Hash, err)
	}
	return model.Block{
		Height:                       r.ExternalHeight(),
		Hash:                         r.Hash,
		PrevHash:                     r.PrevHash,
		Difficulty:                   r.Difficulty,
		Nonce:                        r.Nonce,
		MajorVersion:                 r.MajorVersion,
		MinorVersion:                 r.MinorVersion,
		BlockSize:                    r.BlockSize,
		SizeMedian:                   r.SizeMedian,
		EffectiveSizeMedian:          r.EffectiveSizeMedian,
		TransactionsCumulativeSize:   r.TransactionsCumulativeSize,
		BaseReward:                   r.BaseReward,
		Reward:                       r.Reward,
		Penalty:                      r.Penalty,
		AlreadyGeneratedCoins:        r.AlreadyGeneratedCoins,
		AlreadyGeneratedTransactions: r.AlreadyGeneratedTransactions,
		TotalFeeAmount:               r.TotalFeeAmount,
		OrphanStatus:                 r.OrphanStatus,
		Timestamp:                    r.Timestamp,
		Transactions:                 txs,
	}, nil
}

// Detail maps the row to a block detail with depth computed against maxInternal.
func (r BlockRow) Detail(maxInternal uint64) (*model.BlockDetail, error) {
	block, err := r.Block()
	if err != nil {
		return nil, err
	}
	return &model.BlockDetail{Block: block, Depth: Depth(maxInternal, r.Height)}, nil
}

// Summary maps the row to its listing projection.
func (r BlockRow) Summary() model.BlockSummary {
	return model.BlockSummary{
		CumulativeSize: r.BlockSize,
		Difficulty:     r.Difficulty,
		Hash:           r.Hash,
		Height:         r.ExternalHeight(),
		Timestamp:      r.Timestamp,
		TxCount:        r.TxCount,
	}
}

// Header maps the row to its header projection. Header depth is always zero.
func (r BlockRow) Header() *model.BlockHeader {
	return &model.BlockHeader{
		BlockSize:    r.BlockSize,
		Depth:        0,
		Difficulty:   r.Difficulty,
		Hash:         r.Hash,
		Height:       r.ExternalHeight(),
		MajorVersion: r.MajorVersion,
		MinorVersion: r.MinorVersion,
		Nonce:        r.Nonce,
		NumTxes:      r.TxCount,
		OrphanStatus: r.OrphanStatus,
		PrevHash:     r.PrevHash,
		Reward:       r.Reward,
		Timestamp:    r.Timestamp,
	}
}

// NewTransactionRow maps a transaction to its stored row. ok is false when the
// transaction must not be persisted.
func NewTransactionRow(tx model.Transaction) (row TransactionRow, ok bool) {
	status := tx.Status
	if status == "" {
		status = model.TransactionFetched
	}
	if status == model.TransactionFetched && !tx.HasDetails() {
		return TransactionRow{}, false
	}
	if tx.Hash() == "" {
		return TransactionRow{}, false
	}
	return TransactionRow{
		Hash:       tx.Details.Hash,
		PaymentID:  tx.Details.PaymentID,
		BlockHash:  tx.BlockHash,
		Mixin:      tx.Details.Mixin,
		Size:       tx.Details.Size,
		Fee:        tx.Details.Fee,
		AmountOut:  tx.Details.AmountOut,
		Status:     string(status),
		RawBlock:   rawOrEmpty(tx.RawBlock),
		RawTx:      rawOrEmpty(tx.RawTx),
		RawDetails: rawOrEmpty(tx.RawDetails),
	}, true
}

// Payload maps the row to the stored payload.
func (r TransactionRow) Payload() *model.TransactionPayload {
	return &model.TransactionPayload{
		Block:   json.RawMessage(r.RawBlock),
		Tx:      json.RawMessage(r.RawTx),
		Details: json.RawMessage(r.RawDetails),
		Status:  model.TransactionStatus(r.Status),
	}
}

// Ref returns the identifying reference of the row.
func (r TransactionRow) Ref() model.TransactionRef {
	return model.TransactionRef{Hash: r.Hash, BlockHash: r.BlockHash}
}

func rawOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return emptyPayload
	}
	return string(raw)
}
