package service

import (
	"context"
	"encoding/json"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/events"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

const (
	feedCacheKey = "comunicados:feed:first"
	feedCacheTTL = 60 * time.Second
)

// AnnouncementInput carries the fields accepted when posting to the feed.
type AnnouncementInput struct {
	Tipo         string
	Titulo       string
	ConteudoHTML string
	Conteudo     string
	Imagem       string
	Visibilidade string
	Tags         []string
	Status       string
	AutorID      string
	TargetUserID string
}

// AnnouncementExpanded joins a feed post with its author/target projections
// and embedded comments.
type AnnouncementExpanded struct {
	domain.Announcement
	Autor       *domain.UserMini
	Target      *domain.UserMini
	Comentarios []domain.Comment
}

// AnnouncementService manages the feed, with a short-lived Redis cache over
// the default first page.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	cache         *redis.Client
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewAnnouncementService builds the service. cache may be nil.
func NewAnnouncementService(
	announcements repository.AnnouncementRepository,
	cache *redis.Client,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		cache:         cache,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Create posts to the feed. A body arriving only as plain text is rendered
// to HTML by escaping and turning newlines into <br>.
func (s *AnnouncementService) Create(ctx context.Context, input AnnouncementInput) (*domain.Announcement, error) {
	tipo := domain.AnnouncementType(input.Tipo)
	if tipo == "" {
		tipo = domain.AnnouncementGeneral
	}
	if !domain.ValidAnnouncementType(tipo) {
		return nil, apperrors.NewValidationError("tipo inválido", map[string]any{"tipo": input.Tipo})
	}
	if strings.TrimSpace(input.Titulo) == "" {
		return nil, apperrors.NewValidationError("titulo é obrigatório", nil)
	}

	status := input.Status
	if status == "" {
		status = domain.AnnouncementPublished
	}
	if status != domain.AnnouncementDraft && status != domain.AnnouncementPublished {
		return nil, apperrors.NewValidationError("status inválido", map[string]any{"status": status})
	}

	conteudoHTML := input.ConteudoHTML
	if conteudoHTML == "" && input.Conteudo != "" {
		conteudoHTML = strings.ReplaceAll(html.EscapeString(input.Conteudo), "\n", "<br>")
	}

	visibilidade := input.Visibilidade
	if visibilidade == "" {
		visibilidade = "public"
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	announcement := &domain.Announcement{
		Tipo:         tipo,
		Titulo:       input.Titulo,
		ConteudoHTML: conteudoHTML,
		Conteudo:     input.Conteudo,
		Imagem:       input.Imagem,
		Visibilidade: visibilidade,
		Tags:         tags,
		Status:       status,
		AutorID:      input.AutorID,
		TargetUserID: input.TargetUserID,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)
	if status == domain.AnnouncementPublished {
		s.publishEvent(ctx, announcement, events.EventAnnouncementPublished)
	}
	return announcement, nil
}

// Get loads one post, expanded.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*AnnouncementExpanded, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expanded, err := s.expand(ctx, []domain.Announcement{*announcement})
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// ListFilter narrows the feed listing.
type ListFilter struct {
	Tipo         string
	Status       string
	Visibilidade string
	AutorID      string
	TargetUserID string
	Query        string
	Skip         int
	Limit        int
}

func (f ListFilter) isDefaultFirstPage() bool {
	return f.Tipo == "" && f.Status == domain.AnnouncementPublished &&
		f.Visibilidade == "" && f.AutorID == "" && f.TargetUserID == "" &&
		f.Query == "" && f.Skip == 0
}

// List returns the feed, expanded. The default published first page is
// served from Redis when warm.
func (s *AnnouncementService) List(ctx context.Context, filter ListFilter) ([]AnnouncementExpanded, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	cacheable := s.cache != nil && filter.isDefaultFirstPage()
	if cacheable {
		if cached, err := s.cache.Get(ctx, feedCacheKey).Bytes(); err == nil {
			var out []AnnouncementExpanded
			if json.Unmarshal(cached, &out) == nil && len(out) >= filter.Limit {
				return out[:filter.Limit], nil
			}
		}
	}

	items, err := s.announcements.List(ctx, repository.AnnouncementFilter{
		Tipo:         filter.Tipo,
		Status:       filter.Status,
		Visibilidade: filter.Visibilidade,
		AutorID:      filter.AutorID,
		TargetUserID: filter.TargetUserID,
		Query:        filter.Query,
		Skip:         filter.Skip,
		Limit:        filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	expanded, err := s.expand(ctx, items)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if payload, err := json.Marshal(expanded); err == nil {
			if err := s.cache.Set(ctx, feedCacheKey, payload, feedCacheTTL).Err(); err != nil {
				s.logger.Debug("feed cache write failed", zap.Error(err))
			}
		}
	}
	return expanded, nil
}

func (s *AnnouncementService) expand(ctx context.Context, items []domain.Announcement) ([]AnnouncementExpanded, error) {
	ids := make([]string, 0, len(items))
	userIDs := make(map[string]bool)
	for _, a := range items {
		ids = append(ids, a.ID)
		if a.AutorID != "" {
			userIDs[a.AutorID] = true
		}
		if a.TargetUserID != "" {
			userIDs[a.TargetUserID] = true
		}
	}

	comments, err := s.announcements.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	uniqueIDs := make([]string, 0, len(userIDs))
	for id := range userIDs {
		uniqueIDs = append(uniqueIDs, id)
	}
	minis, err := s.announcements.GetUserMinis(ctx, uniqueIDs)
	if err != nil {
		return nil, err
	}

	out := make([]AnnouncementExpanded, 0, len(items))
	for _, a := range items {
		entry := AnnouncementExpanded{
			Announcement: a,
			Comentarios:  comments[a.ID],
		}
		if entry.Comentarios == nil {
			entry.Comentarios = []domain.Comment{}
		}
		if m, ok := minis[a.AutorID]; ok {
			mini := m
			entry.Autor = &mini
		}
		if m, ok := minis[a.TargetUserID]; ok {
			mini := m
			entry.Target = &mini
		}
		out = append(out, entry)
	}
	return out, nil
}

// UpdateStatus moves a post between draft and published.
func (s *AnnouncementService) UpdateStatus(ctx context.Context, id, status string) (*domain.Announcement, error) {
	if status != domain.AnnouncementDraft && status != domain.AnnouncementPublished {
		return nil, apperrors.NewValidationError("status inválido", map[string]any{"status": status})
	}
	announcement, err := s.announcements.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)
	if status == domain.AnnouncementPublished {
		s.publishEvent(ctx, announcement, events.EventAnnouncementPublished)
	}
	return announcement, nil
}

// AddComment appends a comment. autorID/autorNome may be empty for anonymous
// visitors; the name then falls back to "Colaborador".
func (s *AnnouncementService) AddComment(ctx context.Context, announcementID, texto, autorID, autorNome string) (*domain.Comment, error) {
	if strings.TrimSpace(texto) == "" {
		return nil, apperrors.NewValidationError("texto é obrigatório", nil)
	}
	if _, err := s.announcements.GetByID(ctx, announcementID); err != nil {
		return nil, err
	}

	if autorNome == "" {
		autorNome = "Colaborador"
	}
	comment := &domain.Comment{Texto: texto, AutorID: autorID, AutorNome: autorNome}
	if err := s.announcements.AddComment(ctx, announcementID, comment); err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)
	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			SubjectID: announcementID,
			Actor:     events.Actor{UserID: autorID, Nome: autorNome},
			Timestamp: time.Now().UTC(),
			Payload: events.CommentAddedPayload{
				ComentarioID: comment.ID,
				AutorNome:    autorNome,
				Preview:      preview(texto, 80),
			},
		}); err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
	}
	return comment, nil
}

func (s *AnnouncementService) publishEvent(ctx context.Context, a *domain.Announcement, eventType events.EventType) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: a.ID,
		Actor:     events.Actor{UserID: a.AutorID},
		Timestamp: time.Now().UTC(),
		Payload: events.AnnouncementPublishedPayload{
			Tipo:   string(a.Tipo),
			Titulo: a.Titulo,
			Status: a.Status,
		},
	}); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
}

func (s *AnnouncementService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, feedCacheKey).Err(); err != nil {
		s.logger.Debug("feed cache invalidation failed", zap.Error(err))
	}
}
