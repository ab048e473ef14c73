package domain

// Attachment is the metadata row for a file kept in external blob storage.
// URL is the blob locator; the blob behind a soft-deleted attachment is
// cleaned up asynchronously by the sweeper.
type Attachment struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id,omitempty"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}
