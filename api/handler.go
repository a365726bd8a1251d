package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/eprbridge/core"
)

// PoolProvider exposes the pool state of a running bridge
type PoolProvider interface {
	Snapshot() core.PoolSnapshot
	Estimate(units int64) core.DelayResult
}

// Handler serves pool status and cost estimation requests
type Handler struct {
	pool PoolProvider
}

// NewHandler creates a new API handler
func NewHandler(pool PoolProvider) *Handler {
	return &Handler{pool: pool}
}

// EstimateRequest represents the incoming estimation request
type EstimateRequest struct {
	Units *int64 `json:"units"` // Required: resource units of the hypothetical packet
}

// EstimateResponse represents the estimated cost of a packet
type EstimateResponse struct {
	Units      int64   `json:"units"`
	DelayUnits int64   `json:"delay_units"`
	DelayMs    float64 `json:"delay_ms"`
	Consumed   int64   `json:"consumed"`
	Level      int64   `json:"level"`     // Level the packet would be priced against
	NewLevel   int64   `json:"new_level"` // Level after the packet
	Tier       string  `json:"tier"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Status handles GET /status requests
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET requests are allowed")
		return
	}
	h.sendJSON(w, http.StatusOK, h.pool.Snapshot())
}

// Estimate handles POST /estimate requests. The pool is not modified.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST requests are allowed")
		return
	}

	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Units == nil {
		h.sendError(w, http.StatusBadRequest, "missing_units", "units is required")
		return
	}
	if *req.Units < 0 {
		h.sendError(w, http.StatusBadRequest, "invalid_units", "units must not be negative")
		return
	}
	if *req.Units > core.MaxUnits {
		h.sendError(w, http.StatusBadRequest, "invalid_units", fmt.Sprintf("units must not exceed %d", core.MaxUnits))
		return
	}

	result := h.pool.Estimate(*req.Units)
	h.sendJSON(w, http.StatusOK, EstimateResponse{
		Units:      *req.Units,
		DelayUnits: result.DelayUnits,
		DelayMs:    float64(result.Duration.Microseconds()) / 1000,
		Consumed:   result.Consumed,
		Level:      result.NewLevel + result.Consumed,
		NewLevel:   result.NewLevel,
		Tier:       result.Tier.String(),
	})
}

// Health handles GET /health requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Register installs the status routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/status", h.Status)
	mux.HandleFunc("/estimate", h.Estimate)
	mux.HandleFunc("/health", h.Health)
}

func (h *Handler) sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) sendError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.sendJSON(w, statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}
