// Package transport exposes the read API over HTTP.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

// Handler serves the chain cache read API.
type Handler struct {
	logger  *zap.Logger
	queries Queries
	health  HealthChecker
	metrics Metrics
}

func NewHandler(queries Queries, health HealthChecker, metrics Metrics, logger *zap.Logger) (*Handler, error) {
	if queries == nil {
		return nil, errors.New("handler queries is required")
	}
	if metrics == nil {
		return nil, errors.New("handler metrics is required")
	}
	return &Handler{
		logger:  logger,
		queries: queries,
		health:  health,
		metrics: metrics,
	}, nil
}

// Router registers every route of the read API.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.observe)

	v1 := r.PathPrefix("/v1").Methods(http.MethodGet).Subrouter()
	v1.HandleFunc("/blocks", h.blocks)
	v1.HandleFunc("/blocks/{hash}", h.block)
	v1.HandleFunc("/transactions/{hash}", h.transaction)
	v1.HandleFunc("/payment-ids/{paymentId}/transactions", h.transactionHashesByPaymentID)
	v1.HandleFunc("/blockcount", h.blockCount)
	v1.HandleFunc("/heights/{height}/hash", h.blockHash)
	v1.HandleFunc("/headers/last", h.lastBlockHeader)
	v1.HandleFunc("/headers/hash/{hash}", h.blockHeaderByHash)
	v1.HandleFunc("/headers/height/{height}", h.blockHeaderByHeight)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	return r
}

func (h *Handler) blocks(w http.ResponseWriter, r *http.Request) {
	var height uint64
	if raw := r.URL.Query().Get("height"); raw != "" {
		parsed, err := parseHeight(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		height = parsed
	} else {
		count, err := h.queries.BlockCount(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if count > 0 {
			height = count - 1
		}
	}

	blocks, err := h.queries.Blocks(r.Context(), height)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blocksResponse{Blocks: blocks, Status: statusOK})
}

func (h *Handler) block(w http.ResponseWriter, r *http.Request) {
	block, err := h.queries.Block(r.Context(), mux.Vars(r)["hash"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blockResponse{Block: block, Status: statusOK})
}

func (h *Handler) transaction(w http.ResponseWriter, r *http.Request) {
	payload, err := h.queries.Transaction(r.Context(), mux.Vars(r)["hash"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, transactionResponse{
		TransactionPayload: payload,
		Missing:            payload.Status == model.TransactionMissing,
		Status:             statusOK,
	})
}

func (h *Handler) transactionHashesByPaymentID(w http.ResponseWriter, r *http.Request) {
	hashes, err := h.queries.TransactionHashesByPaymentID(r.Context(), mux.Vars(r)["paymentId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if hashes == nil {
		hashes = []string{}
	}
	h.writeJSON(w, http.StatusOK, transactionHashesResponse{TransactionHashes: hashes, Status: statusOK})
}

func (h *Handler) blockCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.queries.BlockCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blockCountResponse{Count: count, Status: statusOK})
}

func (h *Handler) blockHash(w http.ResponseWriter, r *http.Request) {
	height, err := parseHeight(mux.Vars(r)["height"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	hash, err := h.queries.BlockHash(r.Context(), height)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blockHashResponse{Hash: hash, Status: statusOK})
}

func (h *Handler) lastBlockHeader(w http.ResponseWriter, r *http.Request) {
	header, err := h.queries.LastBlockHeader(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blockHeaderResponse{BlockHeader: header, Status: statusOK})
}

func (h *Handler) blockHeaderByHash(w http.ResponseWriter, r *http.Request) {
	header, err := h.queries.BlockHeaderByHash(r.Context(), mux.Vars(r)["hash"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blockHeaderResponse{BlockHeader: header, Status: statusOK})
}

func (h *Handler) blockHeaderByHeight(w http.ResponseWriter, r *http.Request) {
	height, err := parseHeight(mux.Vars(r)["height"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	header, err := h.queries.BlockHeaderByHeight(r.Context(), height)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, blockHeaderResponse{BlockHeader: header, Status: statusOK})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Status: statusError, Error: err.Error()})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, healthResponse{Status: statusOK})
}

// observe records every request under its route template.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		h.metrics.Observe(route, rec.code, started)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func parseHeight(raw string) (uint64, error) {
	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid height %q", errBadRequest, raw)
	}
	return height, nil
}
