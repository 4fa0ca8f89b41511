// Package http provides the HTTP server of the assistant backend.
package http

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/postcard/internal/config"
	"github.com/xiaot623/postcard/internal/observability"
	"github.com/xiaot623/postcard/internal/service"
	v1 "github.com/xiaot623/postcard/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server.
func NewServer(svc *service.Service, cfg *config.Config, metrics *observability.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "req_" + uuid.New().String()[:8] },
	}))
	e.Use(requestLogger())
	// No configured origins means no cross-origin access at all.
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowCredentials: true,
		}))
	}
	e.Use(requestMetrics(metrics))

	// Handlers
	v1.NewHandler(svc, cfg.AllowedOrigins, cfg.SSEKeepAlive).RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.Error("request failed", append(attrs, "err", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	})
}

func requestMetrics(metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				// Write the error response now so its status is recorded.
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).Inc()
			return err
		}
	}
}
