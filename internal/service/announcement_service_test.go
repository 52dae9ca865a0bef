package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/events"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// memAnnouncementRepo backs the feed tests; newest first, like the table.
type memAnnouncementRepo struct {
	items    []domain.Announcement
	comments map[string][]domain.Comment
	minis    map[string]domain.UserMini
	nextID   int
}

func newMemAnnouncementRepo() *memAnnouncementRepo {
	return &memAnnouncementRepo{
		comments: make(map[string][]domain.Comment),
		minis:    make(map[string]domain.UserMini),
	}
}

func (m *memAnnouncementRepo) Create(_ context.Context, a *domain.Announcement) error {
	m.nextID++
	a.ID = "ann-" + strconv.Itoa(m.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.items = append([]domain.Announcement{*a}, m.items...)
	return nil
}

func (m *memAnnouncementRepo) GetByID(_ context.Context, id string) (*domain.Announcement, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			clone := m.items[i]
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memAnnouncementRepo) List(_ context.Context, filter repository.AnnouncementFilter) ([]domain.Announcement, error) {
	out := make([]domain.Announcement, 0)
	for _, a := range m.items {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Tipo != "" && string(a.Tipo) != filter.Tipo {
			continue
		}
		out = append(out, a)
	}
	if filter.Skip < len(out) {
		out = out[filter.Skip:]
	} else {
		out = out[:0]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memAnnouncementRepo) UpdateStatus(_ context.Context, id, status string) (*domain.Announcement, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			m.items[i].UpdatedAt = time.Now()
			clone := m.items[i]
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memAnnouncementRepo) AddComment(_ context.Context, announcementID string, comment *domain.Comment) error {
	if _, err := m.GetByID(context.Background(), announcementID); err != nil {
		return err
	}
	comment.ID = "com-" + strconv.Itoa(len(m.comments[announcementID])+1)
	comment.CreatedAt = time.Now()
	m.comments[announcementID] = append(m.comments[announcementID], *comment)
	return nil
}

func (m *memAnnouncementRepo) ListComments(_ context.Context, ids []string) (map[string][]domain.Comment, error) {
	out := make(map[string][]domain.Comment)
	for _, id := range ids {
		if cs, ok := m.comments[id]; ok {
			out[id] = append([]domain.Comment{}, cs...)
		}
	}
	return out, nil
}

func (m *memAnnouncementRepo) GetUserMinis(_ context.Context, ids []string) (map[string]domain.UserMini, error) {
	out := make(map[string]domain.UserMini)
	for _, id := range ids {
		if mini, ok := m.minis[id]; ok {
			out[id] = mini
		}
	}
	return out, nil
}

func newAnnouncementService(repo *memAnnouncementRepo) *AnnouncementService {
	return NewAnnouncementService(repo, nil, events.NewInMemoryDispatcher(), zap.NewNop())
}

func TestAnnouncementCreateDefaultsAndRendering(t *testing.T) {
	svc := newAnnouncementService(newMemAnnouncementRepo())

	a, err := svc.Create(context.Background(), AnnouncementInput{
		Titulo:   "Recesso de fim de ano",
		Conteudo: "Fechamos dia 24 <cedo>\nVoltamos dia 2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AnnouncementGeneral, a.Tipo)
	assert.Equal(t, domain.AnnouncementPublished, a.Status)
	assert.Equal(t, "public", a.Visibilidade)
	assert.Equal(t, "Fechamos dia 24 &lt;cedo&gt;<br>Voltamos dia 2", a.ConteudoHTML)
	assert.NotNil(t, a.Tags)
}

func TestAnnouncementCreateValidation(t *testing.T) {
	svc := newAnnouncementService(newMemAnnouncementRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, AnnouncementInput{Titulo: "x", Tipo: "festa"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(ctx, AnnouncementInput{Titulo: "  "})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(ctx, AnnouncementInput{Titulo: "x", Status: "archived"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestAnnouncementListExpandsCommentsAndAuthors(t *testing.T) {
	repo := newMemAnnouncementRepo()
	repo.minis["autor-1"] = domain.UserMini{ID: "autor-1", Nome: "Ana"}
	svc := newAnnouncementService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, AnnouncementInput{Titulo: "Post", AutorID: "autor-1"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, a.ID, "Parabéns!", "", "")
	require.NoError(t, err)

	out, err := svc.List(ctx, ListFilter{Status: domain.AnnouncementPublished})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Autor)
	assert.Equal(t, "Ana", out[0].Autor.Nome)
	require.Len(t, out[0].Comentarios, 1)
	assert.Equal(t, "Colaborador", out[0].Comentarios[0].AutorNome)
}

func TestAnnouncementDraftLifecycle(t *testing.T) {
	repo := newMemAnnouncementRepo()
	svc := newAnnouncementService(repo)
	ctx := context.Background()

	draft, err := svc.Create(ctx, AnnouncementInput{Titulo: "Rascunho", Status: domain.AnnouncementDraft})
	require.NoError(t, err)

	published, err := svc.List(ctx, ListFilter{Status: domain.AnnouncementPublished})
	require.NoError(t, err)
	assert.Empty(t, published)

	_, err = svc.UpdateStatus(ctx, draft.ID, "arquivado")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	updated, err := svc.UpdateStatus(ctx, draft.ID, domain.AnnouncementPublished)
	require.NoError(t, err)
	assert.Equal(t, domain.AnnouncementPublished, updated.Status)

	published, err = svc.List(ctx, ListFilter{Status: domain.AnnouncementPublished})
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestAddCommentValidation(t *testing.T) {
	repo := newMemAnnouncementRepo()
	svc := newAnnouncementService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, AnnouncementInput{Titulo: "Post"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, a.ID, "  ", "", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.AddComment(ctx, "ann-inexistente", "oi", "", "")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
