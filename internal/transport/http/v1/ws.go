package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/postcard/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
	frameBuffer    = 8
)

// wsError is sent when a frame is rejected or a turn fails.
type wsError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ChatWS runs chat turns over a WebSocket. Every text frame from the client
// is a chat request; every stream event is sent back as one JSON frame.
// Turns on one connection run one at a time.
// GET /api/v1/chat/ws
func (h *Handler) ChatWS(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("failed to upgrade websocket", "err", err)
		return nil
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageSize)

	// The turn context ends when the client goes away, even mid-turn.
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	frames := make(chan []byte, frameBuffer)
	go func() {
		defer cancel()
		defer close(frames)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("websocket read failed", "err", err)
				}
				return
			}
			select {
			case frames <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	send := func(v any) error {
		ws.SetWriteDeadline(time.Now().Add(writeWait))
		return ws.WriteJSON(v)
	}

	for data := range frames {
		var req domain.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if err := send(wsError{Type: "error", Error: "invalid JSON message"}); err != nil {
				return nil
			}
			continue
		}
		if err := h.check(&req); err != nil {
			if err := send(wsError{Type: "error", Error: err.Error()}); err != nil {
				return nil
			}
			continue
		}

		err := h.service.Stream(ctx, req, func(evt domain.SSEEvent) error {
			return send(evt)
		})
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("websocket closed during chat turn", "conversation_id", req.ConversationID)
				return nil
			}
			slog.Warn("websocket chat turn failed", "conversation_id", req.ConversationID, "err", err)
			if err := send(wsError{Type: "error", Error: err.Error()}); err != nil {
				return nil
			}
		}
	}
	return nil
}
