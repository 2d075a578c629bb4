package usage

import "time"

// Counter is the per-user per-day download counter. Values never go
// negative; every mutation is a version-checked read-modify-write.
type Counter struct {
	DocumentsProcessed int       `json:"documents_processed"`
	LastUpdated        time.Time `json:"last_updated"`
}

// ExportCounter is the per-user per-day bulk-export counter, kept in a
// separate collection from Counter.
type ExportCounter struct {
	BulkExportsCount int       `json:"bulk_exports_count"`
	LastUpdated      time.Time `json:"last_updated"`
}
