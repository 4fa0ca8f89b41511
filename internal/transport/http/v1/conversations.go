package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetConversation lists the stored messages of a conversation. Unknown ids
// have no messages.
// GET /api/v1/conversations/:conversation_id/messages
func (h *Handler) GetConversation(c echo.Context) error {
	resp, err := h.service.GetConversation(c.Request().Context(), c.Param("conversation_id"))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// ClearConversation forgets a conversation.
// DELETE /api/v1/conversations/:conversation_id
func (h *Handler) ClearConversation(c echo.Context) error {
	if err := h.service.ClearConversation(c.Request().Context(), c.Param("conversation_id")); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
