package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// CourseRepository defines persistence access for the training catalog.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, slug string, course *domain.Course) error
	Upsert(ctx context.Context, course *domain.Course) error
	GetBySlug(ctx context.Context, slug string) (*domain.Course, error)
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context, departamentoSlug string, onlyActive bool) ([]domain.Course, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository returns a Postgres-backed implementation.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseColumns = `id, nome, slug, departamento_slug, carga_horaria, pontos, ativo,
        url, url_plataforma, thumbnail_url, doc_url, created_at, updated_at`

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	if err := row.Scan(
		&c.ID,
		&c.Nome,
		&c.Slug,
		&c.DepartamentoSlug,
		&c.CargaHoraria,
		&c.Pontos,
		&c.Ativo,
		&c.URL,
		&c.URLPlataforma,
		&c.ThumbnailURL,
		&c.DocURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO cursos (nome, slug, departamento_slug, carga_horaria, pontos, ativo,
            url, url_plataforma, thumbnail_url, doc_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		course.Nome,
		course.Slug,
		course.DepartamentoSlug,
		course.CargaHoraria,
		course.Pontos,
		course.Ativo,
		course.URL,
		course.URLPlataforma,
		course.ThumbnailURL,
		course.DocURL,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, slug string, course *domain.Course) error {
	const query = `
        UPDATE cursos SET nome=$1, slug=$2, departamento_slug=$3, carga_horaria=$4, pontos=$5,
            ativo=$6, url=$7, url_plataforma=$8, thumbnail_url=$9, doc_url=$10, updated_at=NOW()
        WHERE slug=$11`

	cmd, err := r.pool.Exec(ctx, query,
		course.Nome,
		course.Slug,
		course.DepartamentoSlug,
		course.CargaHoraria,
		course.Pontos,
		course.Ativo,
		course.URL,
		course.URLPlataforma,
		course.ThumbnailURL,
		course.DocURL,
		slug,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) Upsert(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO cursos (nome, slug, departamento_slug, carga_horaria, pontos, ativo,
            url, url_plataforma, thumbnail_url, doc_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (slug) DO UPDATE SET
            nome=EXCLUDED.nome, departamento_slug=EXCLUDED.departamento_slug,
            carga_horaria=EXCLUDED.carga_horaria, pontos=EXCLUDED.pontos, ativo=EXCLUDED.ativo,
            url=EXCLUDED.url, url_plataforma=EXCLUDED.url_plataforma,
            thumbnail_url=EXCLUDED.thumbnail_url, doc_url=EXCLUDED.doc_url, updated_at=NOW()
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		course.Nome,
		course.Slug,
		course.DepartamentoSlug,
		course.CargaHoraria,
		course.Pontos,
		course.Ativo,
		course.URL,
		course.URLPlataforma,
		course.ThumbnailURL,
		course.DocURL,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM cursos WHERE slug=$1`, slug))
}

func (r *courseRepository) Delete(ctx context.Context, slug string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cursos WHERE slug=$1`, slug)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) List(ctx context.Context, departamentoSlug string, onlyActive bool) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM cursos WHERE 1=1`
	args := []any{}
	if departamentoSlug != "" {
		query += ` AND departamento_slug=$1`
		args = append(args, departamentoSlug)
	}
	if onlyActive {
		query += ` AND ativo=TRUE`
	}
	query += ` ORDER BY nome`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}
