package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// ErrDuplicateCNPJ signals a unique constraint hit on escrituracao.cnpj.
var ErrDuplicateCNPJ = errors.New("cnpj already registered")

// BookkeepingRepository defines persistence access for escrituracao records.
type BookkeepingRepository interface {
	Create(ctx context.Context, rec *domain.BookkeepingRecord) error
	Update(ctx context.Context, rec *domain.BookkeepingRecord) error
	GetByID(ctx context.Context, id string) (*domain.BookkeepingRecord, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*domain.BookkeepingRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int) ([]domain.BookkeepingRecord, int, error)
	ExistingCNPJs(ctx context.Context, cnpjs []string) (map[string]bool, error)
}

type bookkeepingRepository struct {
	pool *pgxpool.Pool
}

// NewBookkeepingRepository returns a Postgres-backed implementation.
func NewBookkeepingRepository(pool *pgxpool.Pool) BookkeepingRepository {
	return &bookkeepingRepository{pool: pool}
}

const bookkeepingColumns = `id, cod_empresa, nome_razao_social, cnpj, login, senha,
        created_at, updated_at`

func scanBookkeeping(row pgx.Row) (*domain.BookkeepingRecord, error) {
	var b domain.BookkeepingRecord
	if err := row.Scan(
		&b.ID,
		&b.CodEmpresa,
		&b.NomeRazaoSocial,
		&b.CNPJ,
		&b.Login,
		&b.Senha,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *bookkeepingRepository) Create(ctx context.Context, rec *domain.BookkeepingRecord) error {
	const query = `
        INSERT INTO escrituracao (cod_empresa, nome_razao_social, cnpj, login, senha)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		rec.CodEmpresa,
		rec.NomeRazaoSocial,
		rec.CNPJ,
		rec.Login,
		rec.Senha,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCNPJ
	}
	return err
}

func (r *bookkeepingRepository) Update(ctx context.Context, rec *domain.BookkeepingRecord) error {
	const query = `
        UPDATE escrituracao SET cod_empresa=$1, nome_razao_social=$2, cnpj=$3, login=$4,
            senha=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		rec.CodEmpresa,
		rec.NomeRazaoSocial,
		rec.CNPJ,
		rec.Login,
		rec.Senha,
		rec.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCNPJ
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookkeepingRepository) GetByID(ctx context.Context, id string) (*domain.BookkeepingRecord, error) {
	return scanBookkeeping(r.pool.QueryRow(ctx,
		`SELECT `+bookkeepingColumns+` FROM escrituracao WHERE id=$1`, id))
}

func (r *bookkeepingRepository) GetByCNPJ(ctx context.Context, cnpj string) (*domain.BookkeepingRecord, error) {
	return scanBookkeeping(r.pool.QueryRow(ctx,
		`SELECT `+bookkeepingColumns+` FROM escrituracao WHERE cnpj=$1`, cnpj))
}

func (r *bookkeepingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM escrituracao WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookkeepingRepository) List(ctx context.Context, skip, limit int) ([]domain.BookkeepingRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM escrituracao`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bookkeepingColumns+` FROM escrituracao ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]domain.BookkeepingRecord, 0)
	for rows.Next() {
		b, err := scanBookkeeping(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *b)
	}
	return records, total, rows.Err()
}

// ExistingCNPJs returns which of the given CNPJs are already registered,
// letting bulk imports skip duplicates with a single round trip.
func (r *bookkeepingRepository) ExistingCNPJs(ctx context.Context, cnpjs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(cnpjs))
	if len(cnpjs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT cnpj FROM escrituracao WHERE cnpj = ANY($1)`, cnpjs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cnpj string
		if err := rows.Scan(&cnpj); err != nil {
			return nil, err
		}
		out[cnpj] = true
	}
	return out, rows.Err()
}
