package engine

import (
	"strings"

	"github.com/google/uuid"
)

// shortID returns n characters of an uppercased random UUID, without
// hyphens.  Group and ticket ids only need to be unique and readable over
// the phone, not sortable.
func shortID(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// NewGroupID returns an identifier for a purchase group created at
// add-to-bag time.
func NewGroupID() string { return "G-" + shortID(9) }

// NewTicketID returns an identifier for a ticket item.
func NewTicketID() string { return "T-" + shortID(6) }
