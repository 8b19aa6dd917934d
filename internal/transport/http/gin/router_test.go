package httpgin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/clock"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
	"github.com/inkfest/desk-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *ledger.Ledger) {
	t.Helper()

	broadcast := hub.New(16)
	led := ledger.New(broadcast, clock.NewFixed(time.Date(2025, 6, 21, 20, 0, 0, 0, time.UTC)))
	svcs := service.NewServices(led, auth.NewGate("hunter2"), nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRouter(svcs, logger), led
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPurchaseFlow(t *testing.T) {
	r, led := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/purchase",
		`{"type":"tattoo","quantity":5,"payment_method":"venmo","name":"Sam","phone":"555-0101"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp PurchaseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Sale.Price != 20 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if rev := led.Revenue(); rev.Total != 20 || rev.TattooTotal != 20 {
		t.Fatalf("unexpected revenue after purchase: %+v", rev)
	}

	// The five raffle entries are pull-only.
	w = doJSON(t, r, http.MethodGet, "/api/raffle/tattoo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
}

func TestPurchaseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{
			"cash without password",
			`{"type":"entry","quantity":1,"payment_method":"cash"}`,
			http.StatusUnauthorized,
		},
		{
			"unknown kind",
			`{"type":"vip","quantity":1,"payment_method":"venmo"}`,
			http.StatusBadRequest,
		},
		{
			"zero quantity",
			`{"type":"entry","quantity":0,"payment_method":"venmo"}`,
			http.StatusBadRequest,
		},
		{
			"raffle without buyer info",
			`{"type":"merch","quantity":1,"payment_method":"venmo"}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, led := newTestRouter(t)

			w := doJSON(t, r, http.MethodPost, "/api/purchase", tt.body)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if rev := led.Revenue(); rev.Total != 0 {
				t.Fatalf("failed purchase mutated the ledger: %+v", rev)
			}
		})
	}
}

func TestDrawEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	// Empty pool first.
	w := doJSON(t, r, http.MethodPost, "/api/raffle/draw", `{"type":"tattoo","password":"hunter2"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty pool, got %d", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/purchase",
		`{"type":"tattoo","quantity":2,"payment_method":"venmo","name":"Sam","phone":"555-0101"}`)

	w = doJSON(t, r, http.MethodPost, "/api/raffle/draw", `{"type":"tattoo","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/raffle/draw", `{"type":"tattoo","password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp DrawResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Winner.Name != "Sam" {
		t.Fatalf("unexpected winner: %+v", resp.Winner)
	}
}

func TestScheduleEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/schedule",
		`{"password":"wrong","title":"Doors","date":"8pm","description":""}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/schedule",
		`{"password":"hunter2","title":"Doors","date":"8pm","description":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ev map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id, _ := ev["id"].(string)
	if id == "" {
		t.Fatalf("expected event id in response: %v", ev)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/schedule/"+id, `{"password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/schedule", "")
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty schedule, got %s", body)
	}
}

func TestRevenueETagRevalidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/revenue", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/revenue", nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w2.Code)
	}
}

func TestStreamSendsSnapshot(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/purchase",
		`{"type":"entry","quantity":2,"payment_method":"venmo"}`)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	r.ServeHTTP(w, req)

	body := w.Body.String()
	for _, name := range []string{hub.EventRevenue, hub.EventSales, hub.EventSchedule} {
		if !strings.Contains(body, "event:"+name) {
			t.Fatalf("snapshot missing %s event:\n%s", name, body)
		}
	}
}
