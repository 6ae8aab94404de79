// Package model defines domain models for the chain cache.
package model

// BlockTransaction is the per-transaction entry listed inside a block.
type BlockTransaction struct {
	Hash      string `json:"hash"`
	Fee       uint64 `json:"fee"`
	AmountOut uint64 `json:"amount_out"`
	Size      uint64 `json:"size"`
}

// Block represents a block as served by the origin daemon. Height is external (zero-based).
type Block struct {
	Height                       uint64             `json:"height"`
	Hash                         string             `json:"hash"`
	PrevHash                     string             `json:"prev_hash"`
	Difficulty                   uint64             `json:"difficulty"`
	Nonce                        uint64             `json:"nonce"`
	MajorVersion                 uint64             `json:"major_version"`
	MinorVersion                 uint64             `json:"minor_version"`
	BlockSize                    uint64             `json:"blockSize"`
	SizeMedian                   uint64             `json:"sizeMedian"`
	EffectiveSizeMedian          uint64             `json:"effectiveSizeMedian"`
	TransactionsCumulativeSize   uint64             `json:"transactionsCumulativeSize"`
	BaseReward                   uint64             `json:"baseReward"`
	Reward                       uint64             `json:"reward"`
	Penalty                      float64            `json:"penalty"`
	AlreadyGeneratedCoins        string             `json:"alreadyGeneratedCoins"`
	AlreadyGeneratedTransactions uint64             `json:"alreadyGeneratedTransactions"`
	TotalFeeAmount               uint64             `json:"totalFeeAmount"`
	OrphanStatus                 bool               `json:"orphan_status"`
	Timestamp                    uint64             `json:"timestamp"`
	Transactions                 []BlockTransaction `json:"transactions"`
}

// BlockSummary is the short projection returned by block listings.
type BlockSummary struct {
	CumulativeSize uint64 `json:"cumul_size"`
	Difficulty     uint64 `json:"difficulty"`
	Hash           string `json:"hash"`
	Height         uint64 `json:"height"`
	Timestamp      uint64 `json:"timestamp"`
	TxCount        uint64 `json:"tx_count"`
}

// BlockDetail is a stored block with its depth below the highest stored block.
type BlockDetail struct {
	Block
	Depth uint64 `json:"depth"`
}

// BlockHeader is the header projection of a stored block.
type BlockHeader struct {
	BlockSize    uint64 `json:"block_size"`
	Depth        uint64 `json:"depth"`
	Difficulty   uint64 `json:"difficulty"`
	Hash         string `json:"hash"`
	Height       uint64 `json:"height"`
	MajorVersion uint64 `json:"major_version"`
	MinorVersion uint64 `json:"minor_version"`
	Nonce        uint64 `json:"nonce"`
	NumTxes      uint64 `json:"num_txes"`
	OrphanStatus bool   `json:"orphan_status"`
	PrevHash     string `json:"prev_hash"`
	Reward       uint64 `json:"reward"`
	Timestamp    uint64 `json:"timestamp"`
}
