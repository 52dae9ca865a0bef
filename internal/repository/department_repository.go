package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// DepartmentRepository defines persistence access for the department taxonomy.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, slug string, dept *domain.Department) error
	Upsert(ctx context.Context, dept *domain.Department) error
	GetBySlug(ctx context.Context, slug string) (*domain.Department, error)
	Delete(ctx context.Context, slug string) error
	ListAll(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository returns a Postgres-backed implementation.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

const departmentColumns = `id, nome, slug, parent_slug, COALESCE(parent_id::text, ''), path, path_slugs,
        ordem, ativo, created_at, updated_at`

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var d domain.Department
	if err := row.Scan(
		&d.ID,
		&d.Nome,
		&d.Slug,
		&d.ParentSlug,
		&d.ParentID,
		&d.Path,
		&d.PathSlugs,
		&d.Ordem,
		&d.Ativo,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departamentos (nome, slug, parent_slug, parent_id, path, path_slugs, ordem, ativo)
        VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		dept.Nome,
		dept.Slug,
		dept.ParentSlug,
		dept.ParentID,
		dept.Path,
		dept.PathSlugs,
		dept.Ordem,
		dept.Ativo,
	).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) Update(ctx context.Context, slug string, dept *domain.Department) error {
	const query = `
        UPDATE departamentos SET nome=$1, slug=$2, parent_slug=$3, parent_id=NULLIF($4, '')::uuid,
            path=$5, path_slugs=$6, ordem=$7, ativo=$8, updated_at=NOW()
        WHERE slug=$9`

	cmd, err := r.pool.Exec(ctx, query,
		dept.Nome,
		dept.Slug,
		dept.ParentSlug,
		dept.ParentID,
		dept.Path,
		dept.PathSlugs,
		dept.Ordem,
		dept.Ativo,
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

// Upsert inserts or refreshes a node by slug; created_at is only written on
// first insert, mirroring the original bulk import semantics.
func (r *departmentRepository) Upsert(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departamentos (nome, slug, parent_slug, parent_id, path, path_slugs, ordem, ativo)
        VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8)
        ON CONFLICT (slug) DO UPDATE SET
            nome=EXCLUDED.nome, parent_slug=EXCLUDED.parent_slug, parent_id=EXCLUDED.parent_id,
            path=EXCLUDED.path, path_slugs=EXCLUDED.path_slugs, ordem=EXCLUDED.ordem,
            ativo=EXCLUDED.ativo, updated_at=NOW()
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		dept.Nome,
		dept.Slug,
		dept.ParentSlug,
		dept.ParentID,
		dept.Path,
		dept.PathSlugs,
		dept.Ordem,
		dept.Ativo,
	).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) GetBySlug(ctx context.Context, slug string) (*domain.Department, error) {
	return scanDepartment(r.pool.QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departamentos WHERE slug=$1`, slug))
}

func (r *departmentRepository) Delete(ctx context.Context, slug string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departamentos WHERE slug=$1`, slug)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) ListAll(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentColumns+` FROM departamentos ORDER BY ordem`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	depts := make([]domain.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		depts = append(depts, *d)
	}
	return depts, rows.Err()
}
