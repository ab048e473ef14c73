package service

import (
	"encoding/json"
	"strings"

	"tasker_backend/internal/domain"
	"tasker_backend/internal/logger"
	"tasker_backend/internal/reconcile"
	"tasker_backend/internal/repository"
)

// AssembleTaskDetail turns the raw aggregate row into the TaskDetail read
// model. The nested collections are parsed defensively: a read never fails
// because a tag string or the attachment JSON is malformed. Unparseable
// attachment payloads yield an empty list; individually broken elements are
// dropped.
func AssembleTaskDetail(row *repository.TaskDetailRow) *domain.TaskDetail {
	priority, err := domain.ParsePriority(row.Priority)
	if err != nil || !priority.Persistable() {
		logger.Warn("task row carries unknown priority", "task_id", row.ID, "priority", row.Priority)
		priority = domain.PriorityLow
	}

	return &domain.TaskDetail{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Completed:      row.Completed,
		Priority:       priority,
		DueDate:        row.DueDate,
		CreatedAt:      row.CreatedAt,
		AssignedTo:     row.AssignedTo,
		AssignedToName: row.AssignedToName,
		ParentID:       row.ParentID,
		Tags:           parseTagCSV(row.Tags),
		Attachments:    parseAttachmentJSON(row.ID, row.Attachments),
	}
}

// parseTagCSV parses the aggregated tag column. NULL and empty both mean no
// tags, never an error.
func parseTagCSV(csv *string) []string {
	if csv == nil || strings.TrimSpace(*csv) == "" {
		return []string{}
	}
	return reconcile.NormalizeTags(strings.Split(*csv, ","))
}

// parseAttachmentJSON parses the aggregated attachment column element by
// element so one broken entry does not take the rest down.
func parseAttachmentJSON(taskID string, payload *string) []domain.Attachment {
	attachments := []domain.Attachment{}
	if payload == nil || *payload == "" || *payload == "[]" {
		return attachments
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(*payload), &elements); err != nil {
		logger.Error("failed to parse attachments payload", "task_id", taskID, "error", err)
		return attachments
	}

	for _, el := range elements {
		var a domain.Attachment
		if err := json.Unmarshal(el, &a); err != nil {
			logger.Warn("dropping malformed attachment element", "task_id", taskID, "error", err)
			continue
		}
		if a.URL == "" && a.FileName == "" {
			logger.Warn("dropping attachment element without locator", "task_id", taskID, "id", a.ID)
			continue
		}
		attachments = append(attachments, a)
	}
	return attachments
}
