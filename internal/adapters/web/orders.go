package web

import "net/http"

// apiListOrders handles GET /api/orders: every storefront order of the seller.
func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOrders(r.Context(), sellerFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiFulfilOrder handles POST /api/orders/{id}/fulfil. Records the order as a
// storefront sale and marks it paid.
func (h *Handler) apiFulfilOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.FulfilOrder(r.Context(), sellerFromContext(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiShipOrder handles POST /api/orders/{id}/ship.
// Body: { tracking_number }
func (h *Handler) apiShipOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		TrackingNumber string `json:"tracking_number"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.ShipOrder(r.Context(), sellerFromContext(r.Context()), id, req.TrackingNumber)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

// apiCancelOrder handles POST /api/orders/{id}/cancel.
func (h *Handler) apiCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.CancelOrder(r.Context(), sellerFromContext(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
