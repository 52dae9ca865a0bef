package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// CreateUserRequest payload for onboarding a colaborador.
type CreateUserRequest struct {
	Nome           string   `json:"nome"`
	Sobrenome      string   `json:"sobrenome"`
	Email          string   `json:"email"`
	Senha          string   `json:"senha"`
	Departamento   string   `json:"departamento"`
	BioPublica     string   `json:"bio_publica"`
	AvatarURL      string   `json:"avatar_url"`
	FotoBoasVindas string   `json:"foto_boas_vindas"`
	WelcomeNotes   []string `json:"welcome_notes"`
	Roles          []string `json:"roles"`
}

// UpdateUserRequest payload; absent fields are kept.
type UpdateUserRequest struct {
	Nome         *string  `json:"nome"`
	Sobrenome    *string  `json:"sobrenome"`
	Email        *string  `json:"email"`
	Senha        *string  `json:"senha"`
	Departamento *string  `json:"departamento"`
	BioPublica   *string  `json:"bio_publica"`
	Ativo        *bool    `json:"ativo"`
	Roles        []string `json:"roles"`
}

// AvatarRequest payload.
type AvatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

// DescricaoRequest payload.
type DescricaoRequest struct {
	DescricaoHTML string `json:"descricao_html"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Msg   string `json:"msg"`
	Autor string `json:"autor"`
}

// ToggleCourseRequest optional payload naming the course on its first toggle.
type ToggleCourseRequest struct {
	Nome string `json:"nome"`
}

// FeedbackResponse profile note.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	Msg       string    `json:"msg"`
	Autor     string    `json:"autor"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseProgressResponse per-course completion state.
type CourseProgressResponse struct {
	CursoID     string     `json:"curso_id"`
	Nome        string     `json:"nome"`
	Concluido   bool       `json:"concluido"`
	ConcluidoEm *time.Time `json:"concluido_em"`
}

// UserResponse full colaborador profile; the password hash never appears.
type UserResponse struct {
	ID              string                   `json:"id"`
	Nome            string                   `json:"nome"`
	Sobrenome       string                   `json:"sobrenome"`
	Email           string                   `json:"email"`
	Departamento    string                   `json:"departamento"`
	AvatarURL       string                   `json:"avatar_url"`
	DescricaoHTML   string                   `json:"descricao_html"`
	BioPublica      string                   `json:"bio_publica"`
	Pontos          int                      `json:"pontos"`
	Ativo           bool                     `json:"ativo"`
	Roles           []string                 `json:"roles"`
	Feedbacks       []FeedbackResponse       `json:"feedbacks"`
	CursosProgresso []CourseProgressResponse `json:"cursos_progresso"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ProfileResponse is the public colaborador profile with the active courses
// of their department attached.
type ProfileResponse struct {
	UserResponse
	CursosDepartamento []CourseResponse `json:"cursos_departamento"`
}

// DirectoryResponse paged colaboradores listing.
type DirectoryResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// FromUser maps a domain user to the response shape.
func FromUser(u domain.User) UserResponse {
	feedbacks := make([]FeedbackResponse, 0, len(u.Feedbacks))
	for _, fb := range u.Feedbacks {
		feedbacks = append(feedbacks, FeedbackResponse{
			ID:        fb.ID,
			Msg:       fb.Msg,
			Autor:     fb.Autor,
			CreatedAt: fb.CreatedAt,
		})
	}
	progress := make([]CourseProgressResponse, 0, len(u.CursosProgresso))
	for _, p := range u.CursosProgresso {
		progress = append(progress, CourseProgressResponse{
			CursoID:     p.CursoID,
			Nome:        p.Nome,
			Concluido:   p.Concluido,
			ConcluidoEm: p.ConcluidoEm,
		})
	}
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:              u.ID,
		Nome:            u.Nome,
		Sobrenome:       u.Sobrenome,
		Email:           u.Email,
		Departamento:    u.Departamento,
		AvatarURL:       u.AvatarURL,
		DescricaoHTML:   u.DescricaoHTML,
		BioPublica:      u.BioPublica,
		Pontos:          u.Pontos,
		Ativo:           u.Ativo,
		Roles:           roles,
		Feedbacks:       feedbacks,
		CursosProgresso: progress,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// FromUsers maps a slice of domain users.
func FromUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
