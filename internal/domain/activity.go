package domain

import "time"

// ActivityLog is a free-form audit entry; Meta is schemaless on purpose so
// the crawler and the front end can attach whatever context they have.
type ActivityLog struct {
	ID     string
	TS     time.Time
	Source string
	Action string
	OK     bool
	Meta   map[string]any
}
