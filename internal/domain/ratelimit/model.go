package ratelimit

import (
	"time"

	"github.com/docuforge/docuforge/internal/types"
)

// Window is the persisted sliding-window state for one (user, endpoint)
// pair. Timestamps outside the window are pruned on every check.
type Window struct {
	Timestamps  []int64   `json:"timestamps"` // epoch ms, ascending
	LastUpdated time.Time `json:"last_updated"`
}

// Prune drops timestamps at or before now-windowSize and returns the
// surviving entries.
func (w *Window) Prune(now time.Time, windowSize time.Duration) []int64 {
	cutoff := now.Add(-windowSize).UnixMilli()
	pruned := make([]int64, 0, len(w.Timestamps))
	for _, ts := range w.Timestamps {
		if ts > cutoff {
			pruned = append(pruned, ts)
		}
	}
	return pruned
}

// CountSince counts timestamps strictly after the cutoff.
func CountSince(timestamps []int64, cutoff time.Time) int {
	cutoffMs := cutoff.UnixMilli()
	count := 0
	for _, ts := range timestamps {
		if ts > cutoffMs {
			count++
		}
	}
	return count
}

// Key addresses one window document.
type Key struct {
	UserID   string
	Endpoint types.Endpoint
}

// Encode renders the key as "<userId>_<endpoint>".
func (k Key) Encode() string {
	return k.UserID + "_" + string(k.Endpoint)
}

// Result is the outcome of a rate-limit check.
type Result struct {
	Allowed           bool      `json:"allowed"`
	Remaining         int       `json:"remaining"`
	ResetAt           time.Time `json:"reset_at"`
	RetryAfterSeconds *int      `json:"retry_after_seconds,omitempty"`
}
