package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// CourseRequest payload for a catalog course.
type CourseRequest struct {
	Nome             string   `json:"nome"`
	Slug             string   `json:"slug"`
	DepartamentoSlug string   `json:"departamento_slug"`
	CargaHoraria     *float64 `json:"carga_horaria"`
	Pontos           int      `json:"pontos"`
	Ativo            *bool    `json:"ativo"`
	URL              string   `json:"url"`
	URLPlataforma    string   `json:"url_plataforma"`
	ThumbnailURL     string   `json:"thumbnail_url"`
	DocURL           string   `json:"doc_url"`
}

// ToInput converts the request to the service input.
func (r CourseRequest) ToInput() service.CourseInput {
	return service.CourseInput{
		Nome:             r.Nome,
		Slug:             r.Slug,
		DepartamentoSlug: r.DepartamentoSlug,
		CargaHoraria:     r.CargaHoraria,
		Pontos:           r.Pontos,
		Ativo:            r.Ativo,
		URL:              r.URL,
		URLPlataforma:    r.URLPlataforma,
		ThumbnailURL:     r.ThumbnailURL,
		DocURL:           r.DocURL,
	}
}

// CourseResponse catalog course.
type CourseResponse struct {
	ID               string    `json:"id"`
	Nome             string    `json:"nome"`
	Slug             string    `json:"slug"`
	DepartamentoSlug string    `json:"departamento_slug"`
	CargaHoraria     *float64  `json:"carga_horaria"`
	Pontos           int       `json:"pontos"`
	Ativo            bool      `json:"ativo"`
	URL              string    `json:"url"`
	URLPlataforma    string    `json:"url_plataforma"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	DocURL           string    `json:"doc_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CourseWithProgressResponse course plus the caller's completion state.
type CourseWithProgressResponse struct {
	CourseResponse
	Concluido   bool       `json:"concluido"`
	ConcluidoEm *time.Time `json:"concluido_em"`
}

// FromCourse maps a domain course to the response shape.
func FromCourse(c domain.Course) CourseResponse {
	return CourseResponse{
		ID:               c.ID,
		Nome:             c.Nome,
		Slug:             c.Slug,
		DepartamentoSlug: c.DepartamentoSlug,
		CargaHoraria:     c.CargaHoraria,
		Pontos:           c.Pontos,
		Ativo:            c.Ativo,
		URL:              c.URL,
		URLPlataforma:    c.URLPlataforma,
		ThumbnailURL:     c.ThumbnailURL,
		DocURL:           c.DocURL,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// FromCourses maps a slice of domain courses.
func FromCourses(courses []domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}

// FromCoursesWithProgress maps the /cursos/me projection.
func FromCoursesWithProgress(items []service.CourseWithProgress) []CourseWithProgressResponse {
	out := make([]CourseWithProgressResponse, 0, len(items))
	for _, item := range items {
		out = append(out, CourseWithProgressResponse{
			CourseResponse: FromCourse(item.Course),
			Concluido:      item.Concluido,
			ConcluidoEm:    item.ConcluidoEm,
		})
	}
	return out
}
