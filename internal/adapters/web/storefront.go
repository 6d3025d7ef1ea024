package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
	"resale-ledger/internal/session"
)

const (
	sessionCookie  = "sf_session"
	rememberCookie = "sf_customer"
)

type storeKey struct{}

// storeFromContext returns the store opened by OpenStore.
func storeFromContext(ctx context.Context) *core.Seller {
	s, _ := ctx.Value(storeKey{}).(*core.Seller)
	return s
}

// OpenStore resolves the {slug} URL parameter to an enabled store and injects it
// into the request context. Unknown and disabled stores answer 404.
func (h *Handler) OpenStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, err := h.svc.OpenStore(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), storeKey{}, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cookiePath scopes storefront cookies to one store.
func cookiePath(store *core.Seller) string {
	return "/api/storefront/" + store.StoreSlug
}

// resolveSession works out who is shopping from the storefront cookies.
func (h *Handler) resolveSession(r *http.Request, store *core.Seller) session.Session {
	in := session.Input{StoreID: store.ID}
	if c, err := r.Cookie(rememberCookie); err == nil {
		if id, err := h.codec.VerifyRemember(store.ID, c.Value); err == nil {
			in.RememberedCustomerID = id
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		in.Token = c.Value
	}
	return session.Resolve(r.Context(), h.codec, in, h.svc.SessionLookups(store.ID))
}

// signIn sets the session and remember cookies for a registered customer.
func (h *Handler) signIn(w http.ResponseWriter, store *core.Seller, c *core.Customer) error {
	tok, err := h.codec.MintCustomer(store.ID, c.ID, c.Email, h.opts.SessionTTL)
	if err != nil {
		return err
	}
	remember, err := h.codec.MintRemember(store.ID, c.ID, h.opts.SessionTTL)
	if err != nil {
		return err
	}
	h.setCookie(w, sessionCookie, tok, cookiePath(store), h.opts.SessionTTL)
	h.setCookie(w, rememberCookie, remember, cookiePath(store), h.opts.SessionTTL)
	return nil
}

// storeItems handles GET /api/storefront/{slug}/items.
func (h *Handler) storeItems(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	result, err := h.svc.ListStoreItems(r.Context(), store.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	result.Store = store.StoreName
	writeJSON(w, result)
}

// storeRegister handles POST /api/storefront/{slug}/customers.
// Body: { email, password, name }
func (h *Handler) storeRegister(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	var req app.RegisterCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.RegisterCustomer(r.Context(), store.ID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.signIn(w, store, customer); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, customer)
}

// storeLogin handles POST /api/storefront/{slug}/login.
// Body: { email, password }
func (h *Handler) storeLogin(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.AuthenticateCustomer(r.Context(), store.ID, req.Email, req.Password)
	if err != nil {
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	if err := h.signIn(w, store, customer); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

// storeLogout handles POST /api/storefront/{slug}/logout.
func (h *Handler) storeLogout(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	h.clearCookie(w, sessionCookie, cookiePath(store))
	h.clearCookie(w, rememberCookie, cookiePath(store))
	w.WriteHeader(http.StatusNoContent)
}

// storeSession handles GET /api/storefront/{slug}/session.
func (h *Handler) storeSession(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	type response struct {
		Store string `json:"store"`
		session.Session
	}
	writeJSON(w, response{Store: store.StoreName, Session: h.resolveSession(r, store)})
}

// storePlaceOrder handles POST /api/storefront/{slug}/orders.
// Signed-in customers order under their account; everyone else checks out as a
// guest and receives a guest session bound to the new order.
func (h *Handler) storePlaceOrder(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	var req app.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var customerID int64
	if sess := h.resolveSession(r, store); sess.Type == session.KindCustomer {
		customerID = sess.CustomerID
	}

	placed, err := h.svc.PlaceOrder(r.Context(), store.ID, customerID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if customerID == 0 {
		tok, err := h.codec.MintGuest(store.ID, placed.Order.ID, h.opts.SessionTTL)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		h.setCookie(w, sessionCookie, tok, cookiePath(store), h.opts.SessionTTL)
	}
	writeJSONStatus(w, http.StatusCreated, placed)
}

// storeOrders handles GET /api/storefront/{slug}/orders for the current session.
func (h *Handler) storeOrders(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	sess := h.resolveSession(r, store)
	if sess.Type == session.KindNone {
		writeError(w, r, "no storefront session", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	result, err := h.svc.ListCustomerOrders(r.Context(), store.ID, sess.CustomerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// storeTrack handles POST /api/storefront/{slug}/track.
// Body: { order_id, email }. A match signs the caller in as a guest of that order.
func (h *Handler) storeTrack(w http.ResponseWriter, r *http.Request) {
	store := storeFromContext(r.Context())
	var req struct {
		OrderID int64  `json:"order_id"`
		Email   string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.TrackOrder(r.Context(), store.ID, req.OrderID, req.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	tok, err := h.codec.MintGuest(store.ID, order.ID, h.opts.SessionTTL)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.setCookie(w, sessionCookie, tok, cookiePath(store), h.opts.SessionTTL)
	writeJSON(w, order)
}
