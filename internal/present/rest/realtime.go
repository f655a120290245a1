package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nagarik-sahayak/sahayak/internal/events"
	"github.com/nagarik-sahayak/sahayak/internal/present/rest/presenter"
)

var errRealtimeDisabled = errors.New("realtime stream is not configured")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Request narrows the stream to the listed complaint ids. An empty list means every issue.
type Request struct {
	Type   string   `json:"type"`
	Issues []string `json:"issues"`
}

type listenFilter struct {
	mu     sync.Mutex
	issues []string
}

func (f *listenFilter) set(issues []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues = slices.Clone(issues)
}

func (f *listenFilter) match(event *events.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.issues) == 0 || slices.Contains(f.issues, event.IssueID)
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return presenter.Unavailable(c, errRealtimeDisabled)
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// subscribed before the upgrade so no event after the handshake is missed
	output, err := h.signal.Subscribe(ctx)
	if err != nil {
		return presenter.Unavailable(c, err)
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	filter := &listenFilter{}
	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.DebugContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}

			switch req.Type {
			case "listen":
				filter.set(req.Issues)
				slog.DebugContext(
					ctx, "Socket subscribe",
					slog.Any("issues", req.Issues),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event, ok := <-output:
			if !ok {
				return nil
			}
			if !filter.match(event) {
				continue
			}
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
