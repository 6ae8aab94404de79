package turtlecoin

import (
	"encoding/json"
	"fmt"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is an error reported by the daemon in the JSON-RPC envelope.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type blockCountResult struct {
	Count  int64  `json:"count"`
	Status string `json:"status"`
}

type blockResult struct {
	Block  json.RawMessage `json:"block"`
	Status string          `json:"status"`
}

// TransactionResult holds the raw sections of an f_transaction_json answer.
type TransactionResult struct {
	Block   json.RawMessage `json:"block"`
	Tx      json.RawMessage `json:"tx"`
	Details json.RawMessage `json:"txDetails"`
	Status  string          `json:"status"`
}

type hashParams struct {
	Hash string `json:"hash"`
}
