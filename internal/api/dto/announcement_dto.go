package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// AnnouncementRequest payload for posting to the feed.
type AnnouncementRequest struct {
	Tipo         string   `json:"tipo"`
	Titulo       string   `json:"titulo"`
	ConteudoHTML string   `json:"conteudo_html"`
	Conteudo     string   `json:"conteudo"`
	Imagem       string   `json:"imagem"`
	Visibilidade string   `json:"visibilidade"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	TargetUserID string   `json:"target_user_id"`
}

// AnnouncementStatusRequest payload for PATCH status.
type AnnouncementStatusRequest struct {
	Status string `json:"status"`
}

// CommentRequest payload.
type CommentRequest struct {
	Texto     string `json:"texto"`
	AutorNome string `json:"autor_nome"`
}

// UserMiniResponse compact author/target projection.
type UserMiniResponse struct {
	ID           string `json:"id"`
	Nome         string `json:"nome"`
	Sobrenome    string `json:"sobrenome"`
	AvatarURL    string `json:"avatar_url"`
	Departamento string `json:"departamento"`
}

// CommentResponse feed comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	Texto     string    `json:"texto"`
	AutorID   string    `json:"autor_id,omitempty"`
	AutorNome string    `json:"autor_nome"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementResponse feed post, optionally expanded with author/target
// projections and embedded comments.
type AnnouncementResponse struct {
	ID           string            `json:"id"`
	Tipo         string            `json:"tipo"`
	Titulo       string            `json:"titulo"`
	ConteudoHTML string            `json:"conteudo_html"`
	Conteudo     string            `json:"conteudo"`
	Imagem       string            `json:"imagem"`
	Visibilidade string            `json:"visibilidade"`
	Tags         []string          `json:"tags"`
	Status       string            `json:"status"`
	AutorID      string            `json:"autor_id,omitempty"`
	TargetUserID string            `json:"target_user_id,omitempty"`
	Autor        *UserMiniResponse `json:"autor,omitempty"`
	Target       *UserMiniResponse `json:"target,omitempty"`
	Comentarios  []CommentResponse `json:"comentarios"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func fromUserMini(m *domain.UserMini) *UserMiniResponse {
	if m == nil {
		return nil
	}
	return &UserMiniResponse{
		ID:           m.ID,
		Nome:         m.Nome,
		Sobrenome:    m.Sobrenome,
		AvatarURL:    m.AvatarURL,
		Departamento: m.Departamento,
	}
}

func fromComments(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:        c.ID,
			Texto:     c.Texto,
			AutorID:   c.AutorID,
			AutorNome: c.AutorNome,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

// FromAnnouncement maps a bare feed post.
func FromAnnouncement(a domain.Announcement) AnnouncementResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return AnnouncementResponse{
		ID:           a.ID,
		Tipo:         string(a.Tipo),
		Titulo:       a.Titulo,
		ConteudoHTML: a.ConteudoHTML,
		Conteudo:     a.Conteudo,
		Imagem:       a.Imagem,
		Visibilidade: a.Visibilidade,
		Tags:         tags,
		Status:       a.Status,
		AutorID:      a.AutorID,
		TargetUserID: a.TargetUserID,
		Comentarios:  []CommentResponse{},
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// FromAnnouncementExpanded maps an expanded feed post.
func FromAnnouncementExpanded(a service.AnnouncementExpanded) AnnouncementResponse {
	out := FromAnnouncement(a.Announcement)
	out.Autor = fromUserMini(a.Autor)
	out.Target = fromUserMini(a.Target)
	out.Comentarios = fromComments(a.Comentarios)
	return out
}

// FromAnnouncementsExpanded maps a slice of expanded feed posts.
func FromAnnouncementsExpanded(items []service.AnnouncementExpanded) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromAnnouncementExpanded(item))
	}
	return out
}

// CommentFromDomain maps one comment.
func CommentFromDomain(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Texto:     c.Texto,
		AutorID:   c.AutorID,
		AutorNome: c.AutorNome,
		CreatedAt: c.CreatedAt,
	}
}
