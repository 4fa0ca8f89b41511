package v1

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/xiaot623/postcard/internal/domain"
	"github.com/xiaot623/postcard/internal/service"
	"github.com/xiaot623/postcard/internal/transport/http/sse"
)

// Chat answers one message.
// POST /api/v1/chat/
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := h.bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	resp, err := h.service.Chat(c.Request().Context(), req)
	if err != nil {
		slog.Error("chat failed", "conversation_id", req.ConversationID, "err", err)
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ChatStream answers one message as a Server-Sent-Event stream. A failed turn
// ends the stream without a done event.
// POST /api/v1/chat/stream
func (h *Handler) ChatStream(c echo.Context) error {
	var req domain.ChatRequest
	if err := h.bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	w := sse.NewWriter(c.Response())
	if w == nil {
		return errorJSON(c, http.StatusInternalServerError, "streaming not supported")
	}

	var mu sync.Mutex
	stop := h.startKeepAlive(w, &mu)
	err := h.service.Stream(c.Request().Context(), req, func(evt domain.SSEEvent) error {
		mu.Lock()
		defer mu.Unlock()
		return w.SendData(evt)
	})
	stop()
	var serr *service.StreamError
	if err != nil && !errors.As(err, &serr) {
		// The status is already committed, so the failure can only be logged.
		slog.Error("chat stream failed", "conversation_id", req.ConversationID, "err", err)
	}
	return nil
}

// startKeepAlive writes an SSE comment every keepAlive interval until stop is
// called, so proxies keep the connection open during slow steps such as
// image scraping.
func (h *Handler) startKeepAlive(w *sse.Writer, mu *sync.Mutex) (stop func()) {
	if h.keepAlive <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				err := w.SendComment("keep-alive")
				mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}
