package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resale-ledger/internal/app"
)

// pendingSale is a validated intake proposal held server-side until the seller
// confirms or cancels it.
type pendingSale struct {
	SellerID  int64
	Request   app.SaleRequest
	CreatedAt time.Time
}

const pendingTTL = 15 * time.Minute

// pendingStore is a thread-safe in-memory store with TTL expiry.
type pendingStore struct {
	mu    sync.Mutex
	sales map[string]pendingSale
}

func newPendingStore() *pendingStore {
	return &pendingStore{sales: make(map[string]pendingSale)}
}

func (s *pendingStore) put(token string, p pendingSale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[token] = p
}

// take removes and returns the proposal for token if it belongs to sellerID and
// has not expired.
func (s *pendingStore) take(token string, sellerID int64) (pendingSale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sales[token]
	if !ok || p.SellerID != sellerID {
		return pendingSale{}, false
	}
	delete(s.sales, token)
	if time.Since(p.CreatedAt) > pendingTTL {
		return pendingSale{}, false
	}
	return p, true
}

func (s *pendingStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// purgeExpired evicts every proposal older than pendingTTL.
func (s *pendingStore) purgeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, p := range s.sales {
		if now.Sub(p.CreatedAt) > pendingTTL {
			delete(s.sales, token)
		}
	}
}

// startPurge starts a background goroutine that evicts expired entries every 5 minutes.
func (s *pendingStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.purgeExpired(now)
			}
		}
	}()
}

type intakeResponse struct {
	*app.IntakeResult
	Token string `json:"token,omitempty"`
}

// apiIntakeSale handles POST /api/intake/sale.
// Body: { text }. A usable proposal comes back with a confirmation token; nothing
// is recorded until POST /api/intake/confirm.
func (h *Handler) apiIntakeSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeErrorBody(w, r, http.StatusBadRequest, errorResponse{Error: "text is required", Code: "VALIDATION_ERROR", Field: "text"})
		return
	}

	sellerID := sellerFromContext(r.Context())
	result, err := h.svc.ProposeSale(r.Context(), sellerID, req.Text)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := intakeResponse{IntakeResult: result}
	if result.Input != nil {
		resp.Token = uuid.NewString()
		h.pending.put(resp.Token, pendingSale{SellerID: sellerID, Request: *result.Input, CreatedAt: time.Now()})
	}
	writeJSON(w, resp)
}

// apiIntakeConfirm handles POST /api/intake/confirm.
// Body: { token, action: "confirm" | "cancel" }
func (h *Handler) apiIntakeConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token  string `json:"token"`
		Action string `json:"action"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeError(w, r, "token is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Action != "confirm" && req.Action != "cancel" {
		writeError(w, r, "action must be 'confirm' or 'cancel'", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	sellerID := sellerFromContext(r.Context())
	pending, ok := h.pending.take(req.Token, sellerID)
	if !ok {
		writeError(w, r, "token not found or expired", "NOT_FOUND", http.StatusNotFound)
		return
	}

	if req.Action == "cancel" {
		type cancelResponse struct {
			OK      bool   `json:"ok"`
			Message string `json:"message"`
		}
		writeJSON(w, cancelResponse{OK: true, Message: "Cancelled."})
		return
	}

	result, err := h.svc.CreateSale(r.Context(), sellerID, pending.Request)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}
