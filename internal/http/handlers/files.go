package handlers

import (
	"net/http"
	"time"

	"tasker_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// DownloadFile serves a stored blob back by file name.
func (h *Handler) DownloadFile(c *gin.Context) {
	name := c.Param("name")
	f, meta, err := h.Files.Open(name)
	if err != nil {
		c.JSON(http.StatusNotFound, failure("file not found", domain.CodeResourceNotFound))
		return
	}
	defer f.Close()

	c.Header("Content-Type", meta.FileType)
	c.Header("Content-Disposition", `attachment; filename="`+meta.FileName+`"`)
	http.ServeContent(c.Writer, c.Request, meta.FileName, time.Time{}, f)
}
