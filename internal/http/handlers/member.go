package handlers

import (
	"net/http"

	"tasker_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ListMembers returns the assignable team members.
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.Members.List(c.Request.Context())
	if err != nil {
		logger.Error("error listing team members", "error", err)
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Data: members, Status: "SUCCESS"})
}
