package usage

import (
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
)

const dayLayout = "2006-01-02"

// DayKey addresses one user's counter for one calendar day (UTC).
type DayKey struct {
	UserID string
	Day    time.Time
}

// NewDayKey builds the key for a user on the day containing t.
func NewDayKey(userID string, t time.Time) DayKey {
	return DayKey{UserID: userID, Day: t.UTC().Truncate(24 * time.Hour)}
}

// Encode renders the key as "<userId>_YYYY-MM-DD".
func (k DayKey) Encode() string {
	return k.UserID + "_" + k.Day.UTC().Format(dayLayout)
}

// ParseDayKey decodes an encoded day key. The date suffix has a fixed
// width, so user ids containing the delimiter are handled correctly.
func ParseDayKey(s string) (DayKey, error) {
	// "<userId>_" + 10-char date
	if len(s) < len(dayLayout)+2 {
		return DayKey{}, ierr.NewErrorf("malformed usage key %q", s).Mark(ierr.ErrValidation)
	}
	sep := len(s) - len(dayLayout) - 1
	if s[sep] != '_' {
		return DayKey{}, ierr.NewErrorf("malformed usage key %q", s).Mark(ierr.ErrValidation)
	}

	day, err := time.ParseInLocation(dayLayout, s[sep+1:], time.UTC)
	if err != nil {
		return DayKey{}, ierr.WithError(err).
			WithHintf("Invalid date in usage key %q", s).
			Mark(ierr.ErrValidation)
	}
	return DayKey{UserID: s[:sep], Day: day}, nil
}

// MonthPrefix returns the key prefix covering every day key of the month
// containing t, e.g. "<userId>_2026-08-". Used to sum monthly usage via a
// prefix scan.
func MonthPrefix(userID string, t time.Time) string {
	return userID + "_" + t.UTC().Format("2006-01") + "-"
}
