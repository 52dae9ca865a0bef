package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/events"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// MaxAvatarBytes caps the data-URL avatar payload stored on a profile.
const MaxAvatarBytes = 8_000_000

// CreateUserInput carries the fields accepted when onboarding a colaborador.
// Senha is optional: a password-less account exists in the directory but
// cannot log in until a password is set.
type CreateUserInput struct {
	Nome           string
	Sobrenome      string
	Email          string
	Senha          string
	Departamento   string
	BioPublica     string
	AvatarURL      string
	FotoBoasVindas string
	WelcomeNotes   []string
	Roles          []string
}

// UpdateUserInput carries optional profile changes; nil means keep.
type UpdateUserInput struct {
	Nome         *string
	Sobrenome    *string
	Email        *string
	Senha        *string
	Departamento *string
	BioPublica   *string
	Ativo        *bool
	Roles        []string
}

// UserService coordinates colaborador accounts, profiles and course progress.
type UserService struct {
	users         repository.UserRepository
	announcements repository.AnnouncementRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
	systemUserID  string
}

// NewUserService builds the service.
func NewUserService(
	users repository.UserRepository,
	announcements repository.AnnouncementRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	bcryptCost int,
	systemUserID string,
) *UserService {
	return &UserService{
		users:         users,
		announcements: announcements,
		dispatcher:    dispatcher,
		logger:        logger,
		bcryptCost:    bcryptCost,
		systemUserID:  systemUserID,
	}
}

// cleanNotes drops blank lines and trims the rest.
func cleanNotes(notes []string) []string {
	cleaned := make([]string, 0, len(notes))
	for _, n := range notes {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return cleaned
}

// bulletText strips a leading list marker ("- ", "* " or "•") and reports
// whether the line carried one.
func bulletText(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "•"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return line, false
}

// welcomeNotesHTML renders onboarding notes. A list where every line is a
// bullet becomes a <ul>; anything else is joined with <br>.
func welcomeNotesHTML(notes []string) string {
	cleaned := cleanNotes(notes)
	if len(cleaned) == 0 {
		return ""
	}

	allBullets := true
	for _, n := range cleaned {
		if _, ok := bulletText(n); !ok {
			allBullets = false
			break
		}
	}

	if allBullets {
		var b strings.Builder
		b.WriteString("<ul>")
		for _, n := range cleaned {
			text, _ := bulletText(n)
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(text))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		return b.String()
	}

	escaped := make([]string, len(cleaned))
	for i, n := range cleaned {
		escaped[i] = html.EscapeString(n)
	}
	return strings.Join(escaped, "<br>")
}

// Create onboards a colaborador: hashes the password when one is given,
// stores welcome notes on the public bio and publishes a new-hire
// announcement to the feed.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Email == "" || input.Nome == "" {
		return nil, apperrors.NewValidationError("nome e email são obrigatórios", nil)
	}
	if len(input.AvatarURL) > MaxAvatarBytes || len(input.FotoBoasVindas) > MaxAvatarBytes {
		return nil, apperrors.NewPayloadTooLarge("imagem excede o tamanho máximo permitido")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email já cadastrado", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash := ""
	if input.Senha != "" {
		var err error
		hash, err = auth.HashPassword(input.Senha, s.bcryptCost)
		if err != nil {
			return nil, err
		}
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{"colaborador"}
	}

	bio := input.BioPublica
	if notes := cleanNotes(input.WelcomeNotes); len(notes) > 0 {
		bio = strings.Join(notes, "\n")
	}

	user := &domain.User{
		Nome:         input.Nome,
		Sobrenome:    input.Sobrenome,
		Email:        input.Email,
		Departamento: input.Departamento,
		PasswordHash: hash,
		AvatarURL:    input.AvatarURL,
		BioPublica:   bio,
		Ativo:        true,
		Roles:        roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	imagem := input.FotoBoasVindas
	if imagem == "" {
		imagem = input.AvatarURL
	}
	s.publishNewHireAnnouncement(ctx, user, welcomeNotesHTML(input.WelcomeNotes), imagem)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserCreated,
		SubjectID: user.ID,
		Actor:     events.Actor{UserID: s.systemUserID},
		Timestamp: time.Now().UTC(),
		Payload: events.UserCreatedPayload{
			Nome:         user.Nome,
			Sobrenome:    user.Sobrenome,
			Email:        user.Email,
			Departamento: user.Departamento,
		},
	})

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// publishNewHireAnnouncement posts the automatic boas-vindas card. Failures
// are logged, never surfaced: onboarding must not break because the feed is
// unavailable.
func (s *UserService) publishNewHireAnnouncement(ctx context.Context, user *domain.User, notesHTML, imagem string) {
	titulo := fmt.Sprintf("Boas-vindas, %s!", strings.TrimSpace(user.Nome+" "+user.Sobrenome))
	conteudo := user.BioPublica
	if conteudo == "" {
		conteudo = fmt.Sprintf("%s acabou de entrar no time de %s.", user.Nome, user.Departamento)
	}

	announcement := &domain.Announcement{
		Tipo:         domain.AnnouncementNewHire,
		Titulo:       titulo,
		Conteudo:     conteudo,
		ConteudoHTML: notesHTML,
		Imagem:       imagem,
		Visibilidade: "public",
		Status:       domain.AnnouncementPublished,
		AutorID:      s.systemUserID,
		TargetUserID: user.ID,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		s.logger.Warn("new hire announcement failed",
			zap.String("user_id", user.ID), zap.Error(err))
	}
}

// Get loads a colaborador with feedbacks and course progress.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// List pages over accounts, newest first.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// SearchDirectory serves the public colaboradores directory.
func (s *UserService) SearchDirectory(ctx context.Context, query, departamento string, page, limit int) ([]domain.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, total, err := s.users.SearchDirectory(ctx, query, strings.ToLower(departamento), page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, total, nil
}

// Update applies a partial profile change.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Nome != nil {
		user.Nome = *input.Nome
	}
	if input.Sobrenome != nil {
		user.Sobrenome = *input.Sobrenome
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *input.Email); err == nil {
			return nil, apperrors.NewConflict("email já cadastrado", map[string]any{"email": *input.Email})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Senha != nil && *input.Senha != "" {
		hash, err := auth.HashPassword(*input.Senha, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Departamento != nil {
		user.Departamento = *input.Departamento
	}
	if input.BioPublica != nil {
		user.BioPublica = *input.BioPublica
	}
	if input.Ativo != nil {
		user.Ativo = *input.Ativo
	}
	if input.Roles != nil {
		user.Roles = input.Roles
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserDeleted,
		SubjectID: id,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// SetAvatar stores an avatar data URL, bounded by MaxAvatarBytes.
func (s *UserService) SetAvatar(ctx context.Context, id, avatarURL string) (*domain.User, error) {
	if len(avatarURL) > MaxAvatarBytes {
		return nil, apperrors.NewPayloadTooLarge("avatar excede o tamanho máximo permitido")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = avatarURL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// SetDescricao replaces the rich profile description.
func (s *UserService) SetDescricao(ctx context.Context, id, descricaoHTML string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DescricaoHTML = descricaoHTML
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// AddFeedback appends a profile note.
func (s *UserService) AddFeedback(ctx context.Context, id, msg, autor string) (*domain.Feedback, error) {
	if strings.TrimSpace(msg) == "" {
		return nil, apperrors.NewValidationError("msg é obrigatória", nil)
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fb := &domain.Feedback{Msg: msg, Autor: autor}
	if err := s.users.AddFeedback(ctx, id, fb); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFeedbackAdded,
		SubjectID: id,
		Actor:     events.Actor{Nome: autor},
		Timestamp: time.Now().UTC(),
		Payload:   events.FeedbackAddedPayload{Autor: autor, Preview: preview(msg, 80)},
	})
	return fb, nil
}

// ToggleCourse inverts the stored completion for one catalog course and
// recomputes the colaborador's points from the full progress list. A course
// never toggled before counts as completed on the first call.
func (s *UserService) ToggleCourse(ctx context.Context, userID, cursoID, nome string) (*domain.User, error) {
	if cursoID == "" {
		return nil, apperrors.NewValidationError("curso_id é obrigatório", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	concluido := true
	for i := range user.CursosProgresso {
		if user.CursosProgresso[i].CursoID == cursoID {
			concluido = !user.CursosProgresso[i].Concluido
			if nome == "" {
				nome = user.CursosProgresso[i].Nome
			}
			break
		}
	}

	progress := domain.CourseProgress{CursoID: cursoID, Nome: nome, Concluido: concluido}
	if concluido {
		now := time.Now().UTC()
		progress.ConcluidoEm = &now
	}
	if err := s.users.UpsertProgress(ctx, userID, progress); err != nil {
		return nil, err
	}

	updated := false
	for i := range user.CursosProgresso {
		if user.CursosProgresso[i].CursoID == cursoID {
			user.CursosProgresso[i] = progress
			updated = true
			break
		}
	}
	if !updated {
		user.CursosProgresso = append(user.CursosProgresso, progress)
	}

	points := domain.CompletedCount(user.CursosProgresso) * domain.PointsPerCourse
	if err := s.users.SetPoints(ctx, userID, points); err != nil {
		return nil, err
	}
	user.Pontos = points

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCourseToggled,
		SubjectID: userID,
		Actor:     events.Actor{UserID: userID},
		Timestamp: time.Now().UTC(),
		Payload: events.CourseToggledPayload{
			CursoID:   cursoID,
			Concluido: concluido,
			Pontos:    points,
		},
	})

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
