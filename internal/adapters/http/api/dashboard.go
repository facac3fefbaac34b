package api

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/okian/healthui/internal/domain/render"
	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
)

// dashboardHandler renders the dashboard page.
type dashboardHandler struct {
	deps   Dependencies
	now    func() time.Time
	logger logger.Logger
}

func newDashboardHandler(deps Dependencies, now func() time.Time, log logger.Logger) *dashboardHandler {
	return &dashboardHandler{deps: deps, now: now, logger: log}
}

// dashboardPage is the template data. Fields typed template.HTML are already
// encoded by the renderer.
type dashboardPage struct {
	Title       template.HTML
	Settings    settings.Settings
	PollOptions []string
	State       template.HTML
	Grid        template.HTML
	UpdatedAgo  string
	Sequence    uint64
}

// HandleDashboard handles GET / requests.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	v := h.deps.View()
	resp := newViewResponse(&v, h.now())

	page := dashboardPage{
		Title:       template.HTML(render.Title(&v)), //nolint:gosec // numeric references only
		Settings:    h.deps.Settings(),
		PollOptions: settings.PollLabels(),
		State:       template.HTML(resp.StateHTML), //nolint:gosec // encoded by render
		Grid:        template.HTML(resp.GridHTML),  //nolint:gosec // encoded by render
		UpdatedAgo:  resp.UpdatedAgo,
		Sequence:    v.Sequence,
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.Error(r.Context(), "dashboard render failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
