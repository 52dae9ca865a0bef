package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// CompanyRepository defines persistence access for empresas.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	Update(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*domain.Company, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]domain.Company, int, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

const companyColumns = `id, cod_empresa, nome_razao_social, cnpj, municipio, uf,
        inscricao_municipal, inscricao_estadual, login_muni, senha_muni, login_est, senha_est,
        created_at, updated_at`

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(
		&c.ID,
		&c.CodEmpresa,
		&c.NomeRazaoSocial,
		&c.CNPJ,
		&c.Municipio,
		&c.UF,
		&c.InscricaoMunicipal,
		&c.InscricaoEstadual,
		&c.LoginMuni,
		&c.SenhaMuni,
		&c.LoginEst,
		&c.SenhaEst,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO empresas (cod_empresa, nome_razao_social, cnpj, municipio, uf,
            inscricao_municipal, inscricao_estadual, login_muni, senha_muni, login_est, senha_est)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		company.CodEmpresa,
		company.NomeRazaoSocial,
		company.CNPJ,
		company.Municipio,
		company.UF,
		company.InscricaoMunicipal,
		company.InscricaoEstadual,
		company.LoginMuni,
		company.SenhaMuni,
		company.LoginEst,
		company.SenhaEst,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	const query = `
        UPDATE empresas SET cod_empresa=$1, nome_razao_social=$2, cnpj=$3, municipio=$4, uf=$5,
            inscricao_municipal=$6, inscricao_estadual=$7, login_muni=$8, senha_muni=$9,
            login_est=$10, senha_est=$11, updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		company.CodEmpresa,
		company.NomeRazaoSocial,
		company.CNPJ,
		company.Municipio,
		company.UF,
		company.InscricaoMunicipal,
		company.InscricaoEstadual,
		company.LoginMuni,
		company.SenhaMuni,
		company.LoginEst,
		company.SenhaEst,
		company.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM empresas WHERE id=$1`, id))
}

func (r *companyRepository) GetByCNPJ(ctx context.Context, cnpj string) (*domain.Company, error) {
	return scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM empresas WHERE cnpj=$1`, cnpj))
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM empresas WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepository) List(ctx context.Context, page, limit int) ([]domain.Company, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM empresas`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM empresas ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	companies := make([]domain.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *c)
	}
	return companies, total, rows.Err()
}
