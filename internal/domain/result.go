package domain

// Status is the coarse outcome of an aggregate write or read.
type Status string

const (
	StatusCreated      Status = "CREATED"
	StatusPartial      Status = "PARTIAL"
	StatusUpdated      Status = "UPDATED"
	StatusUpdateFailed Status = "UPDATE_FAILED"
	StatusDeleted      Status = "DELETED"
	StatusNotFound     Status = "NOT_FOUND"
)

// SubFailure records one absorbed step-local failure (a blob upload, a tag
// batch) that did not flip the coarse status. Stage names the step, Subject
// the file or collection involved.
type SubFailure struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject,omitempty"`
	Reason  string `json:"reason"`
}

// Result is what the coordinator returns for create/update/delete. The
// Failures list carries enough detail for callers that want to see partial
// failures the Status does not reflect.
type Result struct {
	Status   Status       `json:"status"`
	TaskID   string       `json:"task_id,omitempty"`
	Message  string       `json:"message,omitempty"`
	Failures []SubFailure `json:"failures,omitempty"`
}
