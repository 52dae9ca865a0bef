package service

import (
	"context"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// LogService records free-form activity entries sent by the crawler and the
// front end.
type LogService struct {
	logs repository.ActivityLogRepository
}

// NewLogService builds the service.
func NewLogService(logs repository.ActivityLogRepository) *LogService {
	return &LogService{logs: logs}
}

// Record persists one entry. Meta is stored as-is.
func (s *LogService) Record(ctx context.Context, source, action string, ok bool, meta map[string]any) (*domain.ActivityLog, error) {
	if action == "" {
		return nil, apperrors.NewValidationError("action é obrigatória", nil)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	entry := &domain.ActivityLog{Source: source, Action: action, OK: ok, Meta: meta}
	if err := s.logs.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordBatch persists several entries in one round trip.
func (s *LogService) RecordBatch(ctx context.Context, entries []domain.ActivityLog) error {
	for i := range entries {
		if entries[i].Action == "" {
			return apperrors.NewValidationError("action é obrigatória", map[string]any{"index": i})
		}
		if entries[i].Meta == nil {
			entries[i].Meta = map[string]any{}
		}
	}
	return s.logs.InsertMany(ctx, entries)
}

// Recent returns the newest entries.
func (s *LogService) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.logs.Recent(ctx, limit)
}
