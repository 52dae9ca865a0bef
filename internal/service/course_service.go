package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// CourseInput carries the fields accepted for a catalog course.
type CourseInput struct {
	Nome             string
	Slug             string
	DepartamentoSlug string
	CargaHoraria     *float64
	Pontos           int
	Ativo            *bool
	URL              string
	URLPlataforma    string
	ThumbnailURL     string
	DocURL           string
}

// CourseWithProgress pairs a catalog course with one colaborador's state.
type CourseWithProgress struct {
	Course      domain.Course
	Concluido   bool
	ConcluidoEm *time.Time
}

// CourseService manages the training catalog.
type CourseService struct {
	courses     repository.CourseRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
}

// NewCourseService builds the service.
func NewCourseService(
	courses repository.CourseRepository,
	departments repository.DepartmentRepository,
	users repository.UserRepository,
) *CourseService {
	return &CourseService{courses: courses, departments: departments, users: users}
}

func (s *CourseService) validate(input *CourseInput, knownDepts map[string]bool) error {
	input.Slug = domain.NormalizeSlug(input.Slug)
	input.DepartamentoSlug = domain.NormalizeSlug(input.DepartamentoSlug)
	if input.Nome == "" || input.Slug == "" {
		return apperrors.NewValidationError("nome e slug são obrigatórios", nil)
	}
	if input.DepartamentoSlug == "" {
		return apperrors.NewValidationError("departamento_slug é obrigatório", nil)
	}
	if knownDepts != nil && !knownDepts[input.DepartamentoSlug] {
		return apperrors.NewValidationError("departamento não encontrado",
			map[string]any{"departamento_slug": input.DepartamentoSlug})
	}
	return nil
}

func (s *CourseService) checkDepartment(ctx context.Context, slug string) error {
	if _, err := s.departments.GetBySlug(ctx, slug); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("departamento não encontrado",
				map[string]any{"departamento_slug": slug})
		}
		return err
	}
	return nil
}

func fromCourseInput(input CourseInput) *domain.Course {
	course := &domain.Course{
		Nome:             input.Nome,
		Slug:             input.Slug,
		DepartamentoSlug: input.DepartamentoSlug,
		CargaHoraria:     input.CargaHoraria,
		Pontos:           input.Pontos,
		Ativo:            true,
		URL:              input.URL,
		URLPlataforma:    input.URLPlataforma,
		ThumbnailURL:     input.ThumbnailURL,
		DocURL:           input.DocURL,
	}
	if input.Ativo != nil {
		course.Ativo = *input.Ativo
	}
	if course.Pontos <= 0 {
		course.Pontos = domain.PointsPerCourse
	}
	return course
}

// Create adds a catalog entry bound to an existing department.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*domain.Course, error) {
	if err := s.validate(&input, nil); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, input.DepartamentoSlug); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetBySlug(ctx, input.Slug); err == nil {
		return nil, apperrors.NewConflict("slug já cadastrado", map[string]any{"slug": input.Slug})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	course := fromCourseInput(input)
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update rewrites a catalog entry.
func (s *CourseService) Update(ctx context.Context, slug string, input CourseInput) (*domain.Course, error) {
	slug = domain.NormalizeSlug(slug)
	if err := s.validate(&input, nil); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, input.DepartamentoSlug); err != nil {
		return nil, err
	}
	existing, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	course := fromCourseInput(input)
	course.ID = existing.ID
	if err := s.courses.Update(ctx, slug, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Get loads one catalog entry by slug.
func (s *CourseService) Get(ctx context.Context, slug string) (*domain.Course, error) {
	return s.courses.GetBySlug(ctx, domain.NormalizeSlug(slug))
}

// Delete removes a catalog entry by slug.
func (s *CourseService) Delete(ctx context.Context, slug string) error {
	return s.courses.Delete(ctx, domain.NormalizeSlug(slug))
}

// List filters the catalog by department and activity.
func (s *CourseService) List(ctx context.Context, departamentoSlug string, onlyActive bool) ([]domain.Course, error) {
	return s.courses.List(ctx, domain.NormalizeSlug(departamentoSlug), onlyActive)
}

// BulkUpsert imports a batch of courses. Department slugs are resolved once
// up front instead of per item.
func (s *CourseService) BulkUpsert(ctx context.Context, inputs []CourseInput) (*BulkResult, error) {
	depts, err := s.departments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(depts))
	for _, d := range depts {
		known[d.Slug] = true
	}

	result := &BulkResult{}
	for i := range inputs {
		if err := s.validate(&inputs[i], known); err != nil {
			result.Errors++
			result.addDetail(fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		course := fromCourseInput(inputs[i])
		if err := s.courses.Upsert(ctx, course); err != nil {
			result.Errors++
			result.addDetail(fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// CoursesForUser returns the active courses of the colaborador's department
// merged with their completion state.
func (s *CourseService) CoursesForUser(ctx context.Context, userID string) ([]CourseWithProgress, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.List(ctx, domain.NormalizeSlug(user.Departamento), true)
	if err != nil {
		return nil, err
	}

	progress := make(map[string]domain.CourseProgress, len(user.CursosProgresso))
	for _, p := range user.CursosProgresso {
		progress[p.CursoID] = p
	}

	out := make([]CourseWithProgress, 0, len(courses))
	for _, c := range courses {
		entry := CourseWithProgress{Course: c}
		if p, ok := progress[c.Slug]; ok {
			entry.Concluido = p.Concluido
			entry.ConcluidoEm = p.ConcluidoEm
		}
		out = append(out, entry)
	}
	return out, nil
}
