package api

import (
	"net/http"
	"time"
)

// ViewHandler serves the current view and on-demand refreshes.
type ViewHandler struct {
	deps Dependencies
	now  func() time.Time
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps Dependencies, now func() time.Time) *ViewHandler {
	return &ViewHandler{deps: deps, now: now}
}

// HandleView handles GET /api/view requests.
func (h *ViewHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	v := h.deps.View()
	writeJSON(w, http.StatusOK, newViewResponse(&v, h.now()))
}

// HandleRefresh handles POST /api/refresh requests. It returns the view in
// effect afterwards, which is a newer one if another fetch overtook this one.
func (h *ViewHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	v, _ := h.deps.Refresh(r.Context())
	writeJSON(w, http.StatusOK, newViewResponse(&v, h.now()))
}
