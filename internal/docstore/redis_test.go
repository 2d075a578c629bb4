package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMatch(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		expect string
	}{
		{"plain prefix unchanged", "usage:u1_2026-08-", "usage:u1_2026-08-"},
		{"star escaped", "usage:u*", `usage:u\*`},
		{"question mark escaped", "usage:u?", `usage:u\?`},
		{"bracket class escaped", "usage:u[ab]", `usage:u\[ab\]`},
		{"caret escaped", "usage:u[^a]", `usage:u\[\^a\]`},
		{"backslash escaped", `usage:u\1`, `usage:u\\1`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, escapeMatch(tt.in))
		})
	}
}
