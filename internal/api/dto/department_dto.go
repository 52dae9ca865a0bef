package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// DepartmentRequest payload for a taxonomy node.
type DepartmentRequest struct {
	Nome       string `json:"nome"`
	Slug       string `json:"slug"`
	ParentSlug string `json:"parent_slug"`
	Ordem      int    `json:"ordem"`
	Ativo      *bool  `json:"ativo"`
}

// ToInput converts the request to the service input.
func (r DepartmentRequest) ToInput() service.DepartmentInput {
	return service.DepartmentInput{
		Nome:       r.Nome,
		Slug:       r.Slug,
		ParentSlug: r.ParentSlug,
		Ordem:      r.Ordem,
		Ativo:      r.Ativo,
	}
}

// DepartmentResponse taxonomy node.
type DepartmentResponse struct {
	ID         string    `json:"id"`
	Nome       string    `json:"nome"`
	Slug       string    `json:"slug"`
	ParentSlug string    `json:"parent_slug"`
	ParentID   string    `json:"parent_id,omitempty"`
	Path       []string  `json:"path"`
	PathSlugs  []string  `json:"path_slugs"`
	Ordem      int       `json:"ordem"`
	Ativo      bool      `json:"ativo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromDepartment maps a domain department to the response shape.
func FromDepartment(d domain.Department) DepartmentResponse {
	path := d.Path
	if path == nil {
		path = []string{}
	}
	pathSlugs := d.PathSlugs
	if pathSlugs == nil {
		pathSlugs = []string{}
	}
	return DepartmentResponse{
		ID:         d.ID,
		Nome:       d.Nome,
		Slug:       d.Slug,
		ParentSlug: d.ParentSlug,
		ParentID:   d.ParentID,
		Path:       path,
		PathSlugs:  pathSlugs,
		Ordem:      d.Ordem,
		Ativo:      d.Ativo,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// FromDepartments maps a slice of domain departments.
func FromDepartments(depts []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, FromDepartment(d))
	}
	return out
}
