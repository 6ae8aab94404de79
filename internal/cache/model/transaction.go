package model

import "encoding/json"

// TransactionStatus tells fetched transactions apart from placeholders left by failed fetches.
type TransactionStatus string

const (
	// TransactionFetched marks a transaction whose detail payload was retrieved from the origin.
	TransactionFetched TransactionStatus = "fetched"
	// TransactionMissing marks a placeholder stored because the origin failed to serve the transaction.
	TransactionMissing TransactionStatus = "missing"
)

// TransactionDetails is the normalized detail section of a transaction.
type TransactionDetails struct {
	Hash      string `json:"hash"`
	PaymentID string `json:"paymentId"`
	Mixin     uint64 `json:"mixin"`
	Size      uint64 `json:"size"`
	Fee       uint64 `json:"fee"`
	AmountOut uint64 `json:"amount_out"`
}

// Transaction is a transaction together with the raw payloads it was fetched with.
type Transaction struct {
	Details   TransactionDetails
	BlockHash string
	Status    TransactionStatus

	RawBlock   json.RawMessage
	RawTx      json.RawMessage
	RawDetails json.RawMessage
}

// NewMissingTransaction builds the placeholder stored when a transaction could not be fetched.
func NewMissingTransaction(hash, blockHash string) Transaction {
	return Transaction{
		Details:   TransactionDetails{Hash: hash},
		BlockHash: blockHash,
		Status:    TransactionMissing,
	}
}

// Hash returns the transaction hash.
func (t Transaction) Hash() string {
	return t.Details.Hash
}

// HasDetails reports whether the origin served a detail payload for the transaction.
func (t Transaction) HasDetails() bool {
	return len(t.RawDetails) > 0 && string(t.RawDetails) != "null"
}

// TransactionPayload is the stored raw payload of a transaction.
type TransactionPayload struct {
	Block   json.RawMessage   `json:"block"`
	Tx      json.RawMessage   `json:"tx"`
	Details json.RawMessage   `json:"txDetails"`
	Status  TransactionStatus `json:"-"`
}

// TransactionRef identifies a stored transaction by hash and owning block.
type TransactionRef struct {
	Hash      string
	BlockHash string
}
