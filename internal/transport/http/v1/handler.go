// Package v1 provides the public HTTP handlers of the assistant API.
package v1

import (
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/xiaot623/postcard/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	validate *validator.Validate
	upgrader websocket.Upgrader

	keepAlive time.Duration
}

// NewHandler creates a new handler. allowedOrigins restricts WebSocket
// upgrades from browsers. keepAlive is the SSE comment interval; zero disables it.
func NewHandler(svc *service.Service, allowedOrigins []string, keepAlive time.Duration) *Handler {
	return &Handler{
		service:   svc,
		keepAlive: keepAlive,
		validate: newValidator(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	// Chat
	api.POST("/chat/", h.Chat)
	api.POST("/chat", h.Chat)
	api.POST("/chat/stream", h.ChatStream)
	api.GET("/chat/ws", h.ChatWS)

	// Feedback
	api.POST("/feedback/", h.Feedback)
	api.POST("/feedback", h.Feedback)

	// Conversations
	api.GET("/conversations/:conversation_id/messages", h.GetConversation)
	api.DELETE("/conversations/:conversation_id", h.ClearConversation)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes and validates the request body into req.
func (h *Handler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.New("invalid request body")
	}
	return h.check(req)
}

func (h *Handler) check(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.Errorf("%s is %s", verrs[0].Field(), verrs[0].Tag())
	}
	return err
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// serviceError maps a failed chat turn to a status code.
func serviceError(c echo.Context, err error) error {
	var serr *service.StreamError
	if errors.As(err, &serr) && serr.Kind == service.StreamErrorAgent {
		return errorJSON(c, http.StatusBadGateway, err.Error())
	}
	return errorJSON(c, http.StatusInternalServerError, err.Error())
}

// originChecker allows the configured origins. With none configured only
// same-origin upgrades are accepted.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin.
		if origin == "" {
			return true
		}
		if len(set) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		return set[origin]
	}
}
