package domain

import "time"

// TaskDetail is the composed read model for a single task: scalar fields,
// assignee display name, active tag names and active attachments. It is
// always derived from the aggregate read, never persisted.
type TaskDetail struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Completed      bool         `json:"completed"`
	Priority       Priority     `json:"priority"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	AssignedTo     *string      `json:"assigned_to,omitempty"`
	AssignedToName *string      `json:"assigned_to_name,omitempty"`
	ParentID       *string      `json:"parent_id,omitempty"`
	Tags           []string     `json:"tags"`
	Attachments    []Attachment `json:"attachments"`
}

// TeamMember is an assignable user, as shown in the directory.
type TeamMember struct {
	ID                string  `json:"id"`
	DisplayName       string  `json:"name"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

// UIOption is one selectable label served to the frontend, e.g. a priority
// label.
type UIOption struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Code      int    `json:"code"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}
