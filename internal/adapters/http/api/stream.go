package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/okian/healthui/internal/domain/render"
	"github.com/okian/healthui/pkg/logger"
)

const (
	streamWriteTimeout = 10 * time.Second
	shutdownReason     = "shutdown"
)

// StreamHandler pushes views to websocket clients.
type StreamHandler struct {
	deps   Dependencies
	hub    Subscriber
	now    func() time.Time
	logger logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps Dependencies, hub Subscriber, now func() time.Time, log logger.Logger) *StreamHandler {
	return &StreamHandler{deps: deps, hub: hub, now: now, logger: log}
}

// HandleStream handles GET /api/stream. The current view is sent first, then
// every newly applied view. Client messages are ignored.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket accept failed", logger.Error(err))
		return
	}
	defer conn.CloseNow()

	sub, err := h.hub.Subscribe()
	if err != nil {
		conn.Close(websocket.StatusGoingAway, shutdownReason)
		return
	}
	defer h.hub.Unsubscribe(sub)

	ctx := conn.CloseRead(r.Context())
	h.logger.Debug(ctx, "stream client connected", logger.String("id", sub.ID))

	current := h.deps.View()
	if err := h.write(ctx, conn, &current); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug(ctx, "stream client gone", logger.String("id", sub.ID))
			return
		case v, ok := <-sub.C:
			if !ok {
				conn.Close(websocket.StatusGoingAway, shutdownReason)
				return
			}
			if err := h.write(ctx, conn, &v); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) write(ctx context.Context, conn *websocket.Conn, v *render.View) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	err := wsjson.Write(ctx, conn, newViewResponse(v, h.now()))
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Warn(ctx, "stream write failed", logger.Error(err))
	}
	return err
}
