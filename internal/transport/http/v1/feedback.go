package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/postcard/internal/domain"
)

// Feedback emails user feedback to the product owner.
// POST /api/v1/feedback/
func (h *Handler) Feedback(c echo.Context) error {
	var req domain.FeedbackRequest
	if err := h.bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	resp, err := h.service.SendFeedback(c.Request().Context(), req)
	if err != nil {
		slog.Error("feedback failed", "err", err)
		return errorJSON(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
