package web

import "net/http"

// apiProfitReport handles GET /api/reports/profit?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) apiProfitReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.svc.GetProfitReport(r.Context(), sellerFromContext(r.Context()), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}
