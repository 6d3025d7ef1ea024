package web

import (
	"net/http"

	"resale-ledger/internal/app"
	"resale-ledger/internal/core"
)

// apiListSales handles GET /api/sales.
// Query: item_id, from, to (YYYY-MM-DD, inclusive). All optional.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.SaleFilter{From: q.Get("from"), To: q.Get("to")}
	if raw := q.Get("item_id"); raw != "" {
		id, ok := parseID(w, r, "item_id", raw)
		if !ok {
			return
		}
		filter.ItemID = id
	}
	result, err := h.svc.ListSales(r.Context(), sellerFromContext(r.Context()), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetSale handles GET /api/sales/{id}.
func (h *Handler) apiGetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetSale(r.Context(), sellerFromContext(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateSale handles POST /api/sales.
func (h *Handler) apiCreateSale(w http.ResponseWriter, r *http.Request) {
	var req app.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateSale(r.Context(), sellerFromContext(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiUpdateSale handles PATCH /api/sales. The body carries the sale id.
func (h *Handler) apiUpdateSale(w http.ResponseWriter, r *http.Request) {
	var req app.UpdateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		writeErrorBody(w, r, http.StatusBadRequest, errorResponse{Error: "id is required", Code: "VALIDATION_ERROR", Field: "id"})
		return
	}
	result, err := h.svc.UpdateSale(r.Context(), sellerFromContext(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDeleteSale handles DELETE /api/sales?id=N.
func (h *Handler) apiDeleteSale(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeErrorBody(w, r, http.StatusBadRequest, errorResponse{Error: "id is required", Code: "VALIDATION_ERROR", Field: "id"})
		return
	}
	id, ok := parseID(w, r, "id", raw)
	if !ok {
		return
	}
	result, err := h.svc.DeleteSale(r.Context(), sellerFromContext(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	type deleteResponse struct {
		Message           string `json:"message"`
		ItemRemoved       bool   `json:"item_removed"`
		InventoryRestored bool   `json:"inventory_restored"`
	}
	resp := deleteResponse{
		Message:           "Sale deleted",
		ItemRemoved:       result.ItemRemoved,
		InventoryRestored: result.InventoryRestored,
	}
	switch {
	case result.ItemRemoved:
		resp.Message = "Sale deleted; the item no longer exists so no inventory was restored"
	case !result.InventoryRestored:
		resp.Message = "Sale deleted; the item is archived so its counters were left unchanged"
	}
	writeJSON(w, resp)
}
