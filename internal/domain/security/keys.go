package security

import (
	"fmt"
	"strconv"
	"strings"

	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/types"
)

// Composite keys pack timestamp-first fields into a string so key order is
// time order. Encoding and parsing live here, round-trip tested, instead of
// naive string splitting scattered across callers.

// tsWidth zero-pads millisecond timestamps so lexicographic order matches
// numeric order well past year 2200.
const tsWidth = 13

// EventKey is the typed form of "timestamp_userId_eventType".
type EventKey struct {
	Timestamp int64
	UserID    string
	EventType types.SecurityEventType
}

// Encode renders the key with a zero-padded timestamp.
func (k EventKey) Encode() string {
	return fmt.Sprintf("%0*d_%s_%s", tsWidth, k.Timestamp, k.UserID, k.EventType)
}

// knownEventTypes lists the suffixes ParseEventKey can strip. Event types
// contain the delimiter themselves ("quota_violation"), so parsing matches
// known suffixes instead of splitting.
var knownEventTypes = []types.SecurityEventType{
	types.SecurityEventQuotaViolation,
	types.SecurityEventRateLimitHit,
	types.SecurityEventUnauthorizedAccess,
	types.SecurityEventSuspiciousExport,
}

// ParseEventKey decodes an encoded event key. User ids may contain the
// delimiter; timestamps are fixed-width and event types are matched against
// the known set, so the middle segment is unambiguous.
func ParseEventKey(s string) (EventKey, error) {
	if len(s) < tsWidth+1 || s[tsWidth] != '_' {
		return EventKey{}, ierr.NewErrorf("malformed event key %q", s).Mark(ierr.ErrValidation)
	}

	ts, err := strconv.ParseInt(s[:tsWidth], 10, 64)
	if err != nil {
		return EventKey{}, ierr.WithError(err).
			WithHintf("Invalid timestamp in event key %q", s).
			Mark(ierr.ErrValidation)
	}

	rest := s[tsWidth+1:]
	for _, et := range knownEventTypes {
		suffix := "_" + string(et)
		if strings.HasSuffix(rest, suffix) && len(rest) > len(suffix) {
			return EventKey{
				Timestamp: ts,
				UserID:    rest[:len(rest)-len(suffix)],
				EventType: et,
			}, nil
		}
	}
	return EventKey{}, ierr.NewErrorf("unknown event type in key %q", s).Mark(ierr.ErrValidation)
}

// NotificationKey is the typed form of "timestamp_severity_userId".
type NotificationKey struct {
	Timestamp int64
	Severity  types.Severity
	UserID    string
}

// Encode renders the key with a zero-padded timestamp.
func (k NotificationKey) Encode() string {
	return fmt.Sprintf("%0*d_%s_%s", tsWidth, k.Timestamp, k.Severity, k.UserID)
}

// ParseNotificationKey decodes an encoded notification key. Severity never
// contains the delimiter, so the user id keeps any delimiters it has.
func ParseNotificationKey(s string) (NotificationKey, error) {
	parts := strings.SplitN(s, "_", 3)
	if len(parts) != 3 {
		return NotificationKey{}, ierr.NewErrorf("malformed notification key %q", s).Mark(ierr.ErrValidation)
	}

	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return NotificationKey{}, ierr.WithError(err).
			WithHintf("Invalid timestamp in notification key %q", s).
			Mark(ierr.ErrValidation)
	}

	severity := types.Severity(parts[1])
	switch severity {
	case types.SeverityInfo, types.SeverityWarning, types.SeverityCritical:
	default:
		return NotificationKey{}, ierr.NewErrorf("unknown severity in key %q", s).Mark(ierr.ErrValidation)
	}

	return NotificationKey{Timestamp: ts, Severity: severity, UserID: parts[2]}, nil
}
