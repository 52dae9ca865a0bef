package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// LogRequest payload for a free-form activity entry.
type LogRequest struct {
	Source string         `json:"source"`
	Action string         `json:"action"`
	OK     *bool          `json:"ok"`
	Meta   map[string]any `json:"meta"`
}

// LogResponse activity entry.
type LogResponse struct {
	ID     string         `json:"id"`
	TS     time.Time      `json:"ts"`
	Source string         `json:"source"`
	Action string         `json:"action"`
	OK     bool           `json:"ok"`
	Meta   map[string]any `json:"meta"`
}

// FromActivityLog maps a domain entry to the response shape.
func FromActivityLog(e domain.ActivityLog) LogResponse {
	meta := e.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return LogResponse{
		ID:     e.ID,
		TS:     e.TS,
		Source: e.Source,
		Action: e.Action,
		OK:     e.OK,
		Meta:   meta,
	}
}

// FromActivityLogs maps a slice of domain entries.
func FromActivityLogs(entries []domain.ActivityLog) []LogResponse {
	out := make([]LogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromActivityLog(e))
	}
	return out
}
