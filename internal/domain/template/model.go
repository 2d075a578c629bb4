package template

import "time"

// Template is the minimal view of a document template the pipeline needs:
// existence and the resource URL handed back on an approved download.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"owner_id"`
	FileSizeMB  int       `json:"file_size_mb"`
	ResourceURL string    `json:"resource_url"`
	CreatedAt   time.Time `json:"created_at"`
}
