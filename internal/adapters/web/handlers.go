package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"resale-ledger/internal/app"
	"resale-ledger/internal/metrics"
	"resale-ledger/internal/session"
)

// Options configures the HTTP adapter.
type Options struct {
	JWTSecret      string
	SessionSecret  string
	SellerTokenTTL time.Duration
	SessionTTL     time.Duration
	AllowedOrigins []string
	CookieSecure   bool
	Logger         *zap.Logger
	Metrics        *metrics.Metrics // nil disables /metrics and request metrics
}

// Handler holds the ApplicationService, the chi router, and the pending intake store.
type Handler struct {
	svc     app.ApplicationService
	router  chi.Router
	pending *pendingStore
	codec   *session.Codec
	opts    Options
	log     *zap.Logger
}

// NewHandler creates and wires the chi router with all routes. The pending
// intake purge stops when ctx is cancelled.
func NewHandler(ctx context.Context, svc app.ApplicationService, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SessionSecret == "" {
		opts.SessionSecret = opts.JWTSecret
	}
	if opts.SellerTokenTTL == 0 {
		opts.SellerTokenTTL = 24 * time.Hour
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}

	h := &Handler{
		svc:     svc,
		pending: newPendingStore(),
		codec:   session.NewCodec(opts.SessionSecret),
		opts:    opts,
		log:     opts.Logger,
	}
	h.pending.startPurge(ctx)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.log, opts.Metrics))
	r.Use(Recoverer(h.log))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Health and metrics (public) ───────────────────────────────────────────
	r.Get("/api/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Auth (public API) ─────────────────────────────────────────────────
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)

		// ── Storefront (public, per store) ────────────────────────────────────
		r.Route("/api/storefront/{slug}", func(r chi.Router) {
			r.Use(h.OpenStore)
			r.Get("/items", h.storeItems)
			r.Post("/customers", h.storeRegister)
			r.Post("/login", h.storeLogin)
			r.Post("/logout", h.storeLogout)
			r.Get("/session", h.storeSession)
			r.Post("/orders", h.storePlaceOrder)
			r.Get("/orders", h.storeOrders)
			r.Post("/track", h.storeTrack)
		})

		// ── Seller API (authenticated) ────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/api/auth/me", h.me)
			r.Put("/api/seller/storefront", h.setStorefront)

			r.Get("/api/items", h.apiListItems)
			r.Post("/api/items", h.apiCreateItem)
			r.Get("/api/items/drift", h.apiDrift)
			r.Get("/api/items/{id}", h.apiGetItem)
			r.Patch("/api/items/{id}", h.apiUpdateItem)
			r.Delete("/api/items/{id}", h.apiDeleteItem)

			r.Get("/api/sales", h.apiListSales)
			r.Post("/api/sales", h.apiCreateSale)
			r.Patch("/api/sales", h.apiUpdateSale)
			r.Delete("/api/sales", h.apiDeleteSale)
			r.Get("/api/sales/{id}", h.apiGetSale)

			r.Get("/api/reports/profit", h.apiProfitReport)

			r.Get("/api/orders", h.apiListOrders)
			r.Post("/api/orders/{id}/fulfil", h.apiFulfilOrder)
			r.Post("/api/orders/{id}/ship", h.apiShipOrder)
			r.Post("/api/orders/{id}/cancel", h.apiCancelOrder)

			r.Post("/api/intake/sale", h.apiIntakeSale)
			r.Post("/api/intake/confirm", h.apiIntakeConfirm)
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, writing a 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return parseID(w, r, "id", chi.URLParam(r, "id"))
}

func parseID(w http.ResponseWriter, r *http.Request, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, name+" must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
