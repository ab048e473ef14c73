package domain

// Tag is a free-text label on a task. Among active (non-deleted) tags of one
// task, names are unique after trimming.
type Tag struct {
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
}
