package security

import (
	"testing"

	"github.com/docuforge/docuforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		eventType types.SecurityEventType
	}{
		{"quota violation", "user-1", types.SecurityEventQuotaViolation},
		{"rate limit hit", "user-1", types.SecurityEventRateLimitHit},
		{"user id with delimiter", "org_acme_user_7", types.SecurityEventSuspiciousExport},
		{"unauthorized access", "u", types.SecurityEventUnauthorizedAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := EventKey{Timestamp: 1756480000123, UserID: tt.userID, EventType: tt.eventType}
			parsed, err := ParseEventKey(key.Encode())
			require.NoError(t, err)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestEventKeyOrdering(t *testing.T) {
	earlier := EventKey{Timestamp: 1000, UserID: "u", EventType: types.SecurityEventQuotaViolation}
	later := EventKey{Timestamp: 999999999999, UserID: "a", EventType: types.SecurityEventQuotaViolation}

	// Zero-padded timestamps keep lexicographic order aligned with time.
	assert.Less(t, earlier.Encode(), later.Encode())
}

func TestParseEventKeyRejectsMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"not-a-key",
		"0000000001000_user",                // no event type
		"0000000001000_user_unknown_thing",  // unknown event type
		"000000000100x_user_rate_limit_hit", // bad timestamp
	} {
		_, err := ParseEventKey(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestNotificationKeyRoundTrip(t *testing.T) {
	key := NotificationKey{
		Timestamp: 1756480000123,
		Severity:  types.SeverityCritical,
		UserID:    "org_acme_user_7",
	}

	parsed, err := ParseNotificationKey(key.Encode())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParseNotificationKeyRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "123", "123_critical", "123_bogus_user"} {
		_, err := ParseNotificationKey(input)
		assert.Error(t, err, "input %q", input)
	}
}
