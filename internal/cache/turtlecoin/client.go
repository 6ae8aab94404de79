// Package turtlecoin talks to a TurtleCoin daemon over its CryptoNote JSON-RPC interface.
package turtlecoin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/ratelimit"
)

const (
	methodGetBlockCount  = "getblockcount"
	methodGetBlockHash   = "on_getblockhash"
	methodGetBlock       = "f_block_json"
	methodGetTransaction = "f_transaction_json"

	maxResponseBytes = 64 << 20
)

// ErrEmptyResult is returned when the daemon answers without a result.
var ErrEmptyResult = errors.New("empty rpc result")

// Config holds the daemon endpoint and client limits.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
	// RPS caps outgoing requests per second. Zero disables the limit.
	RPS int
}

// Endpoint returns the JSON-RPC URL of the daemon.
func (c Config) Endpoint() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) + "/json_rpc"
}

// Client is an instrumented JSON-RPC client for the daemon.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	rpcMetrics RPCMetrics
}

// NewClient constructs a client for the configured daemon.
func NewClient(cfg Config, rpcMetrics RPCMetrics) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("rpc host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid rpc port %d", cfg.Port)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}

	return &Client{
		endpoint:   cfg.Endpoint(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		rpcMetrics: rpcMetrics,
	}, nil
}

// GetBlockCount returns the daemon block count.
func (c *Client) GetBlockCount(ctx context.Context) (count int64, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_block_count", err, started)
	}()

	var res blockCountResult
	if err = c.call(ctx, methodGetBlockCount, nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

// GetBlockHash returns the hash of the block at height.
func (c *Client) GetBlockHash(ctx context.Context, height uint64) (hash string, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_block_hash", err, started)
	}()

	if err = c.call(ctx, methodGetBlockHash, []uint64{height}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

// GetBlock returns the raw block object served for hash.
func (c *Client) GetBlock(ctx context.Context, hash string) (block json.RawMessage, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_block", err, started)
	}()

	var res blockResult
	if err = c.call(ctx, methodGetBlock, hashParams{Hash: hash}, &res); err != nil {
		return nil, err
	}
	if isEmpty(res.Block) {
		err = fmt.Errorf("block %s: %w", hash, ErrEmptyResult)
		return nil, err
	}
	return res.Block, nil
}

// GetTransaction returns the raw transaction sections served for hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (res TransactionResult, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_transaction", err, started)
	}()

	if err = c.call(ctx, methodGetTransaction, hashParams{Hash: hash}, &res); err != nil {
		return TransactionResult{}, err
	}
	return res, nil
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(request{JSONRPC: "2.0", ID: "1", Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	c.limiter.Take()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope response
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %w", method, envelope.Error)
	}
	if isEmpty(envelope.Result) {
		return fmt.Errorf("%s: %w", method, ErrEmptyResult)
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func isEmpty(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
