package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"tasker_backend/internal/blob"
	"tasker_backend/internal/domain"
	"tasker_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// taskPayload is the task body of create/update requests. Tags and
// AttachmentIDs are pointers on purpose: a missing field means "do not
// reconcile this collection", while an empty list means "remove everything".
type taskPayload struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Completed     bool            `json:"completed"`
	Priority      domain.Priority `json:"priority"`
	DueDate       *time.Time      `json:"due_date"`
	AssignedTo    *string         `json:"assigned_to"`
	ParentID      *string         `json:"parent_id"`
	Tags          *[]string       `json:"tags"`
	AttachmentIDs *[]string       `json:"attachment_ids"`
}

func (p *taskPayload) toTask() *domain.Task {
	return &domain.Task{
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		AssignedTo:  p.AssignedTo,
		ParentID:    p.ParentID,
	}
}

// parseTaskRequest accepts either a bare JSON body or a multipart form with
// a "task" JSON field plus "files" parts.
func parseTaskRequest(c *gin.Context) (*taskPayload, []*multipart.FileHeader, error) {
	var p taskPayload

	if c.ContentType() == "application/json" {
		if err := c.ShouldBindJSON(&p); err != nil {
			return nil, nil, err
		}
		return &p, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	raw := ""
	if vals := form.Value["task"]; len(vals) > 0 {
		raw = vals[0]
	}
	if raw == "" {
		return nil, nil, errors.New("missing task field")
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil, err
	}
	return &p, form.File["files"], nil
}

// openUploads converts multipart file headers into blob uploads. Open errors
// are returned as per-file sub-failures by the service, so here we only skip
// headers that cannot be opened at all.
func openUploads(headers []*multipart.FileHeader) ([]blob.Upload, []func() error) {
	uploads := make([]blob.Upload, 0, len(headers))
	closers := make([]func() error, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			logger.Warn("cannot open multipart file", "file", fh.Filename, "error", err)
			continue
		}
		uploads = append(uploads, blob.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
		closers = append(closers, f.Close)
	}
	return uploads, closers
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle), errors.Is(err, domain.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, failure(err.Error(), domain.CodeValidationFailed))
	case errors.Is(err, domain.ErrConstraintViolation):
		c.JSON(http.StatusBadRequest, failure("the value already exists", domain.CodeConstraintViolation))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, failure("resource not found", domain.CodeResourceNotFound))
	default:
		c.JSON(http.StatusInternalServerError, failure("a database error occurred", domain.CodeDBError))
	}
}

// ListTasks returns active task summaries, optionally filtered by priority.
func (h *Handler) ListTasks(c *gin.Context) {
	priority := domain.PriorityAll
	if v := c.Query("priority"); v != "" {
		priority = domain.Priority(v)
	}

	tasks, err := h.Tasks.List(c.Request.Context(), priority)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPriority) {
			c.JSON(http.StatusBadRequest, failure(err.Error(), domain.CodeValidationFailed))
			return
		}
		logger.Error("error listing tasks", "error", err)
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Data: tasks, Status: "SUCCESS"})
}

// CreateTask creates a task with its initial tags and attachments. A file
// failure after the task row committed yields status PARTIAL, never a 5xx.
func (h *Handler) CreateTask(c *gin.Context) {
	p, headers, err := parseTaskRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error(), domain.CodeValidationFailed))
		return
	}

	uploads, closers := openUploads(headers)
	defer func() {
		for _, cl := range closers {
			_ = cl()
		}
	}()

	var tags []string
	if p.Tags != nil {
		tags = *p.Tags
	}

	res, err := h.Tasks.Create(c.Request.Context(), p.toTask(), tags, uploads)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resultEnvelope(res))
}

// GetTask returns the assembled task detail.
func (h *Handler) GetTask(c *gin.Context) {
	detail, err := h.Tasks.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("error getting task", "task_id", c.Param("id"), "error", err)
		}
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Data: detail, Status: "SUCCESS"})
}

// UpdateTask reconciles the task aggregate toward the supplied state.
func (h *Handler) UpdateTask(c *gin.Context) {
	p, headers, err := parseTaskRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error(), domain.CodeValidationFailed))
		return
	}

	uploads, closers := openUploads(headers)
	defer func() {
		for _, cl := range closers {
			_ = cl()
		}
	}()

	res, err := h.Tasks.Update(c.Request.Context(), c.Param("id"), p.toTask(), p.Tags, p.AttachmentIDs, uploads)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyTitle) || errors.Is(err, domain.ErrInvalidPriority) {
			c.JSON(http.StatusBadRequest, failure(err.Error(), domain.CodeValidationFailed))
			return
		}
		logger.Error("error updating task", "task_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, resultEnvelope(res))
		return
	}
	if res.Status == domain.StatusUpdateFailed {
		c.JSON(http.StatusNotFound, resultEnvelope(res))
		return
	}
	c.JSON(http.StatusOK, resultEnvelope(res))
}

// DeleteTask soft-deletes the task row.
func (h *Handler) DeleteTask(c *gin.Context) {
	res, err := h.Tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if res.Status == domain.StatusNotFound {
		c.JSON(http.StatusNotFound, resultEnvelope(res))
		return
	}
	c.JSON(http.StatusOK, resultEnvelope(res))
}
