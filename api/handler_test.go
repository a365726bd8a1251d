package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourusername/eprbridge/core"
	"github.com/yourusername/eprbridge/metrics"
)

// fakePool prices against a fixed level
type fakePool struct {
	level int64
}

func (p *fakePool) Snapshot() core.PoolSnapshot {
	return core.PoolSnapshot{Level: p.level, Capacity: 250000, State: "idle"}
}

func (p *fakePool) Estimate(units int64) core.DelayResult {
	return core.Evaluate(core.Tiered, units, p.level, time.Microsecond)
}

func postEstimate(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.Estimate(w, req)
	return w
}

func TestStatus_ReturnsSnapshot(t *testing.T) {
	handler := NewHandler(&fakePool{level: 10000})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	handler.Status(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp core.PoolSnapshot
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Level != 10000 || resp.Capacity != 250000 {
		t.Errorf("snapshot = %+v, want level 10000 capacity 250000", resp)
	}
	if resp.State != "idle" {
		t.Errorf("State = %s, want idle", resp.State)
	}
}

func TestEstimate_PricesAgainstLevel(t *testing.T) {
	pool := &fakePool{level: 10000}
	handler := NewHandler(pool)

	w := postEstimate(t, handler, `{"units": 5000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp EstimateResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.DelayUnits != 20000 {
		t.Errorf("DelayUnits = %d, want 20000", resp.DelayUnits)
	}
	if resp.DelayMs != 20 {
		t.Errorf("DelayMs = %.3f, want 20", resp.DelayMs)
	}
	if resp.Level != 10000 || resp.NewLevel != 7500 {
		t.Errorf("levels = %d -> %d, want 10000 -> 7500", resp.Level, resp.NewLevel)
	}
	if resp.Tier != "cheap" {
		t.Errorf("Tier = %s, want cheap", resp.Tier)
	}
	if pool.level != 10000 {
		t.Errorf("pool level changed to %d", pool.level)
	}
}

func TestEstimate_RejectsBadRequests(t *testing.T) {
	handler := NewHandler(&fakePool{})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{`, "invalid_request"},
		{"missing units", `{}`, "missing_units"},
		{"negative units", `{"units": -1}`, "invalid_units"},
		{"units overflow the cost model", `{"units": 1152921504606846976}`, "invalid_units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postEstimate(t, handler, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error != tt.code {
				t.Errorf("Error = %s, want %s", resp.Error, tt.code)
			}
		})
	}
}

func TestEstimate_LargestRequestSaturates(t *testing.T) {
	handler := NewHandler(&fakePool{level: 0})

	w := postEstimate(t, handler, fmt.Sprintf(`{"units": %d}`, core.MaxUnits))
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp EstimateResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.DelayUnits != core.MaxUnits*core.ExpensiveRate {
		t.Errorf("DelayUnits = %d, want %d", resp.DelayUnits, core.MaxUnits*core.ExpensiveRate)
	}
	if resp.DelayMs <= 0 {
		t.Errorf("DelayMs = %f, want positive", resp.DelayMs)
	}
}

func TestHandler_RejectsWrongMethod(t *testing.T) {
	handler := NewHandler(&fakePool{})

	w := httptest.NewRecorder()
	handler.Estimate(w, httptest.NewRequest(http.MethodGet, "/estimate", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /estimate status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}

	w = httptest.NewRecorder()
	handler.Status(w, httptest.NewRequest(http.MethodPost, "/status", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /status status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestRegister_RoutesRequests(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(&fakePool{}).Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("GET /health = %d %q, want 200 OK", w.Code, w.Body.String())
	}
}

func TestMetricsHandler_ServesSnapshot(t *testing.T) {
	m := metrics.NewMetrics()
	m.RecordTick(core.TickApplied, 10000)
	handler := NewMetricsHandler(m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var snap metrics.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.TicksApplied != 1 || snap.Level != 10000 {
		t.Errorf("snapshot = %+v, want one applied tick at level 10000", snap)
	}
}
