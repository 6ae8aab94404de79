package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/service/query"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage"
	"go.uber.org/zap"
)

const (
	statusOK    = "OK"
	statusError = "error"
)

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type blocksResponse struct {
	Blocks []model.BlockSummary `json:"blocks"`
	Status string               `json:"status"`
}

type blockResponse struct {
	Block  *model.BlockDetail `json:"block"`
	Status string             `json:"status"`
}

type transactionResponse struct {
	*model.TransactionPayload
	Missing bool   `json:"missing"`
	Status  string `json:"status"`
}

type transactionHashesResponse struct {
	TransactionHashes []string `json:"transactionHashes"`
	Status            string   `json:"status"`
}

type blockCountResponse struct {
	Count  uint64 `json:"count"`
	Status string `json:"status"`
}

type blockHashResponse struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

type blockHeaderResponse struct {
	BlockHeader *model.BlockHeader `json:"block_header"`
	Status      string             `json:"status"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// statusCode maps a query error to the HTTP status it is served with.
func statusCode(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, query.ErrStaleCache):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.writeJSON(w, code, errorResponse{Status: statusError, Error: err.Error()})
}
