package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyRoundTrip(t *testing.T) {
	day := time.Date(2026, 8, 29, 15, 42, 0, 0, time.UTC)

	tests := []struct {
		name   string
		userID string
	}{
		{"simple user id", "user-123"},
		{"user id with underscores", "org_acme_user_7"},
		{"ulid style id", "usr_01h2xcejqtf2nbrexx3vqjhp41"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewDayKey(tt.userID, day)
			encoded := key.Encode()

			parsed, err := ParseDayKey(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, parsed.UserID)
			assert.Equal(t, "2026-08-29", parsed.Day.Format("2006-01-02"))
		})
	}
}

func TestDayKeyEncoding(t *testing.T) {
	key := NewDayKey("u1", time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, "u1_2026-01-05", key.Encode())
}

func TestParseDayKeyRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "u1", "u1-2026-08-29", "u1_2026-13-99", "_2026-08-29"} {
		_, err := ParseDayKey(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestMonthPrefixCoversOnlyThatMonth(t *testing.T) {
	prefix := MonthPrefix("u1", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "u1_2026-08-", prefix)

	inMonth := NewDayKey("u1", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)).Encode()
	outOfMonth := NewDayKey("u1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)).Encode()
	assert.True(t, len(inMonth) > len(prefix) && inMonth[:len(prefix)] == prefix)
	assert.False(t, outOfMonth[:len(prefix)] == prefix)
}
