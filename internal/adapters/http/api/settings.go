package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	service "github.com/okian/healthui/internal/app"
	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
)

const maxSettingsBody = 64 << 10

// SettingsHandler reads and saves the dashboard settings.
type SettingsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps Dependencies, log logger.Logger) *SettingsHandler {
	return &SettingsHandler{deps: deps, logger: log}
}

// HandleGet handles GET /api/settings requests.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Settings())
}

// HandlePut handles PUT /api/settings requests. Store failures are logged by
// the poller and never reported to the client.
func (h *SettingsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var next settings.Settings
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody))
	if err := dec.Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	applied, err := h.deps.SaveSettings(r.Context(), next)
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
		return
	case err != nil:
		h.logger.Debug(r.Context(), "settings applied without persistence", logger.Error(err))
	}

	writeJSON(w, http.StatusOK, applied)
}
