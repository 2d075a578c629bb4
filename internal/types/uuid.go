package types

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Prefixes for generated identifiers.
const (
	UUIDPrefixAccessRequest     = "req"
	UUIDPrefixSecurityEvent     = "sev"
	UUIDPrefixAdminNotification = "notif"
)

// GenerateUUID returns a lowercase ULID. ULIDs are lexicographically
// sortable by creation time, which the store's key ordering relies on.
func GenerateUUID() string {
	return strings.ToLower(ulid.Make().String())
}

// GenerateUUIDWithPrefix returns a prefixed ULID, e.g. "req_01h2...".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return prefix + "_" + GenerateUUID()
}
