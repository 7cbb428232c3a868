// Package models contains the entities served by the Sen backend.
package models

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// Base holds the fields every backend entity carries.
type Base struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// CreatedAtTime parses CreatedAt. The backend has sent both RFC 3339 and
// plain "2006-01-02 15:04:05" timestamps, so the layout is detected.
func (b Base) CreatedAtTime() (time.Time, error) {
	return parseTimestamp("createdAt", b.CreatedAt)
}

// UpdatedAtTime parses UpdatedAt.
func (b Base) UpdatedAtTime() (time.Time, error) {
	return parseTimestamp("updatedAt", b.UpdatedAt)
}

func parseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing %s %q: %w", field, value, err)
	}
	return t, nil
}
