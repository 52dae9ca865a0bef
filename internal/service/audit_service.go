package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/events"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
)

// AuditService persists an activity log row for every domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	logs       repository.ActivityLogRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logs repository.ActivityLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logs:       logs,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserCreated, a.record)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.record)
	a.dispatcher.Subscribe(events.EventFeedbackAdded, a.record)
	a.dispatcher.Subscribe(events.EventCourseToggled, a.record)
	a.dispatcher.Subscribe(events.EventAnnouncementPublished, a.record)
	a.dispatcher.Subscribe(events.EventCommentAdded, a.record)
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	entry := &domain.ActivityLog{
		Source: "intranet-api",
		Action: string(event.Type),
		OK:     true,
		Meta: map[string]any{
			"event_id":   event.ID,
			"subject_id": event.SubjectID,
			"payload":    event.Payload,
		},
	}
	if event.Actor.UserID != "" {
		entry.Meta["actor_id"] = event.Actor.UserID
	}
	if event.Actor.Nome != "" {
		entry.Meta["actor_nome"] = event.Actor.Nome
	}

	if err := a.logs.Insert(ctx, entry); err != nil {
		a.logger.Warn("audit insert failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
