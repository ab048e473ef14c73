package domain

import (
	"fmt"
	"time"
)

// Priority is the ordered task priority. ALL is a filter value only and is
// never persisted on a task row.
type Priority string

const (
	PriorityAll    Priority = "ALL"
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var priorityCodes = map[Priority]int{
	PriorityAll:    0,
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

// Code returns the numeric code for the priority, 0 for unknown values.
func (p Priority) Code() int {
	return priorityCodes[p]
}

// Valid reports whether p is a known priority, including the ALL filter value.
func (p Priority) Valid() bool {
	_, ok := priorityCodes[p]
	return ok
}

// Persistable reports whether p may be stored on a task row.
func (p Priority) Persistable() bool {
	return p.Valid() && p != PriorityAll
}

// PriorityFromCode maps a numeric code back to a Priority.
func PriorityFromCode(code int) (Priority, error) {
	for p, c := range priorityCodes {
		if c == code {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority code: %d", code)
}

// ParsePriority parses a stored or user supplied priority string.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority: %q", s)
	}
	return p, nil
}

// Task is the scalar task row. Tags and attachments are dependent
// collections reconciled by the service layer, not fields of the row.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
	IsDeleted   bool       `json:"-"`
	DeletedAt   *time.Time `json:"-"`
}

// TaskSummary is one element of the task list read: the scalar row plus the
// assignee display name and the active tag names.
type TaskSummary struct {
	Task
	AssignedToName *string  `json:"assigned_to_name,omitempty"`
	Tags           []string `json:"tags"`
}
