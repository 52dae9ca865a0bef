package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// DepartmentInput carries the fields accepted for a taxonomy node.
type DepartmentInput struct {
	Nome       string
	Slug       string
	ParentSlug string
	Ordem      int
	Ativo      *bool
}

// DepartmentService manages the organizational taxonomy.
type DepartmentService struct {
	departments repository.DepartmentRepository
}

// NewDepartmentService builds the service.
func NewDepartmentService(departments repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departments: departments}
}

func (s *DepartmentService) validate(input *DepartmentInput) error {
	input.Slug = domain.NormalizeSlug(input.Slug)
	input.ParentSlug = domain.NormalizeSlug(input.ParentSlug)
	if input.Nome == "" || input.Slug == "" {
		return apperrors.NewValidationError("nome e slug são obrigatórios", nil)
	}
	if input.ParentSlug == input.Slug {
		return apperrors.NewValidationError("departamento não pode ser pai de si mesmo",
			map[string]any{"slug": input.Slug})
	}
	return nil
}

// materialize builds a node from the input, deriving path/path_slugs from
// the resolved parent.
func materialize(input DepartmentInput, parent *domain.Department) *domain.Department {
	dept := &domain.Department{
		Nome:       input.Nome,
		Slug:       input.Slug,
		ParentSlug: input.ParentSlug,
		Ordem:      input.Ordem,
		Ativo:      true,
	}
	if input.Ativo != nil {
		dept.Ativo = *input.Ativo
	}
	if parent != nil {
		dept.ParentID = parent.ID
		dept.Path = append(append([]string{}, parent.Path...), input.Nome)
		dept.PathSlugs = append(append([]string{}, parent.PathSlugs...), input.Slug)
	} else {
		dept.Path = []string{input.Nome}
		dept.PathSlugs = []string{input.Slug}
	}
	return dept
}

func (s *DepartmentService) resolveParent(ctx context.Context, parentSlug string) (*domain.Department, error) {
	if parentSlug == "" {
		return nil, nil
	}
	parent, err := s.departments.GetBySlug(ctx, parentSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("departamento pai não encontrado",
				map[string]any{"parent_slug": parentSlug})
		}
		return nil, err
	}
	return parent, nil
}

// Create inserts a node under its parent.
func (s *DepartmentService) Create(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	if _, err := s.departments.GetBySlug(ctx, input.Slug); err == nil {
		return nil, apperrors.NewConflict("slug já cadastrado", map[string]any{"slug": input.Slug})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	parent, err := s.resolveParent(ctx, input.ParentSlug)
	if err != nil {
		return nil, err
	}

	dept := materialize(input, parent)
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Update rewrites a node and recomputes its path from the (possibly new)
// parent.
func (s *DepartmentService) Update(ctx context.Context, slug string, input DepartmentInput) (*domain.Department, error) {
	slug = domain.NormalizeSlug(slug)
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	existing, err := s.departments.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	parent, err := s.resolveParent(ctx, input.ParentSlug)
	if err != nil {
		return nil, err
	}

	dept := materialize(input, parent)
	dept.ID = existing.ID
	if err := s.departments.Update(ctx, slug, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Get loads one node by slug.
func (s *DepartmentService) Get(ctx context.Context, slug string) (*domain.Department, error) {
	return s.departments.GetBySlug(ctx, domain.NormalizeSlug(slug))
}

// Delete removes a node by slug.
func (s *DepartmentService) Delete(ctx context.Context, slug string) error {
	return s.departments.Delete(ctx, domain.NormalizeSlug(slug))
}

// ListAll returns the whole taxonomy ordered by ordem.
func (s *DepartmentService) ListAll(ctx context.Context) ([]domain.Department, error) {
	return s.departments.ListAll(ctx)
}

// BulkUpsert imports a whole taxonomy in one call. Parents may be defined
// anywhere in the batch or already exist in the database; nodes are settled
// in rounds until no progress is made. Remaining nodes point at parents that
// exist nowhere, which fails the batch naming them.
func (s *DepartmentService) BulkUpsert(ctx context.Context, inputs []DepartmentInput) ([]domain.Department, error) {
	for i := range inputs {
		if err := s.validate(&inputs[i]); err != nil {
			return nil, err
		}
	}

	existing, err := s.departments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]*domain.Department, len(existing))
	for i := range existing {
		bySlug[existing[i].Slug] = &existing[i]
	}

	pending := append([]DepartmentInput{}, inputs...)
	settled := make([]domain.Department, 0, len(inputs))

	for len(pending) > 0 {
		progressed := false
		next := pending[:0]
		for _, input := range pending {
			parent, ok := bySlug[input.ParentSlug]
			if input.ParentSlug != "" && !ok {
				next = append(next, input)
				continue
			}

			dept := materialize(input, parent)
			if err := s.departments.Upsert(ctx, dept); err != nil {
				return nil, err
			}
			bySlug[dept.Slug] = dept
			settled = append(settled, *dept)
			progressed = true
		}
		if !progressed {
			slugs := make([]string, 0, len(next))
			for _, input := range next {
				slugs = append(slugs, input.Slug)
			}
			sort.Strings(slugs)
			return nil, apperrors.NewValidationError(
				"departamentos com pai não resolvido: "+strings.Join(slugs, ", "),
				map[string]any{"slugs": slugs})
		}
		pending = append([]DepartmentInput{}, next...)
	}

	return settled, nil
}
