// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/okian/healthui/internal/adapters/mq/broadcast"
	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/internal/domain/render"
	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the poller implementation.
type Dependencies interface {
	Settings() settings.Settings
	View() render.View
	SaveSettings(ctx context.Context, next settings.Settings) (settings.Settings, error)
	Refresh(ctx context.Context) (render.View, bool)
	SelfHealth(ctx context.Context) health.Report
}

// Subscriber hands out view subscriptions for the stream endpoint.
type Subscriber interface {
	Subscribe() (*broadcast.Subscription[render.View], error)
	Unsubscribe(sub *broadcast.Subscription[render.View])
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	viewHandler      *ViewHandler
	settingsHandler  *SettingsHandler
	streamHandler    *StreamHandler
	dashboardHandler *dashboardHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

type serverConfig struct {
	logger logger.Logger
	now    func() time.Time
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *serverConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, hub Subscriber, opts ...Option) *Server {
	cfg := serverConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("http")
	}

	return &Server{
		healthHandler:    NewHealthHandler(deps),
		viewHandler:      NewViewHandler(deps, cfg.now),
		settingsHandler:  NewSettingsHandler(deps, cfg.logger),
		streamHandler:    NewStreamHandler(deps, hub, cfg.now, cfg.logger),
		dashboardHandler: newDashboardHandler(deps, cfg.now, cfg.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET /api/view", MetricsMiddleware(s.viewHandler.HandleView, "view"))
	mux.HandleFunc("POST /api/refresh", MetricsMiddleware(s.viewHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("GET /api/settings", MetricsMiddleware(s.settingsHandler.HandleGet, "settings"))
	mux.HandleFunc("PUT /api/settings", MetricsMiddleware(s.settingsHandler.HandlePut, "settings"))
	mux.HandleFunc("GET /api/stream", MetricsMiddleware(s.streamHandler.HandleStream, "stream"))
	mux.HandleFunc("GET /health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
}

// viewResponse is a View with its HTML fragments ready for the page.
type viewResponse struct {
	render.View
	UpdatedAgo string `json:"updatedAgo,omitempty"`
	StateHTML  string `json:"stateHtml"`
	GridHTML   string `json:"gridHtml"`
}

func newViewResponse(v *render.View, now time.Time) viewResponse {
	resp := viewResponse{
		View:      *v,
		StateHTML: render.StateHTML(v),
		GridHTML:  render.GridHTML(v),
	}
	if resp.Cards == nil {
		resp.Cards = []render.Card{}
	}
	if !v.UpdatedAt.IsZero() {
		resp.UpdatedAgo = "updated " + humanize.RelTime(v.UpdatedAt, now, "ago", "from now")
	}
	return resp
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
