package admin

import "time"

// PlatformAdmin marks a user as exempt from every gate in the pipeline.
// Written by admin bootstrap tooling; read-only here.
type PlatformAdmin struct {
	UserID    string    `json:"user_id"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}
