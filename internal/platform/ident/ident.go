// Package ident provides the identifier type shared by every entity reference.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// ID identifies a user, team, task, or invitation. The zero value means "unset".
type ID string

// New returns a fresh random ID.
func New() ID {
	return ID(uuid.New().String())
}

// Parse trims s and returns it as an ID. Empty input yields the zero ID.
func Parse(s string) ID {
	return ID(strings.TrimSpace(s))
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Equal reports whether id and other reference the same entity.
// Two unset IDs are never equal, so an empty assignee never matches an empty principal.
func (id ID) Equal(other ID) bool {
	if id.IsZero() || other.IsZero() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(string(id)), strings.TrimSpace(string(other)))
}

// Normalized returns the canonical form used for storage keys and policy input.
func (id ID) Normalized() string {
	return strings.ToLower(strings.TrimSpace(string(id)))
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Contains reports whether ids has an element equal to id.
func Contains(ids []ID, id ID) bool {
	for _, candidate := range ids {
		if candidate.Equal(id) {
			return true
		}
	}
	return false
}

// Strings converts ids to their normalized string form.
func Strings(ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Normalized())
	}
	return out
}

// FromStrings converts raw strings to IDs, skipping blanks.
func FromStrings(ss []string) []ID {
	out := make([]ID, 0, len(ss))
	for _, s := range ss {
		if id := Parse(s); !id.IsZero() {
			out = append(out, id)
		}
	}
	return out
}
