package handlers

import (
	"net/http"

	"tasker_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const priorityCategory = "priority"

// PriorityLabels returns the selectable priority labels for the frontend.
func (h *Handler) PriorityLabels(c *gin.Context) {
	options, err := h.Options.ListByCategory(c.Request.Context(), priorityCategory)
	if err != nil {
		logger.Error("error listing priority labels", "error", err)
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Data: options})
}
