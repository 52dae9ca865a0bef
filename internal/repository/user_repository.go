package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// UserRepository defines persistence access for colaborador accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	SearchDirectory(ctx context.Context, query, departamento string, page, limit int) ([]domain.User, int, error)
	AddFeedback(ctx context.Context, userID string, fb *domain.Feedback) error
	UpsertProgress(ctx context.Context, userID string, p domain.CourseProgress) error
	SetPoints(ctx context.Context, userID string, points int) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, nome, sobrenome, email, departamento, senha_hash, avatar_url,
        descricao_html, bio_publica, pontos, ativo, roles, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Nome,
		&u.Sobrenome,
		&u.Email,
		&u.Departamento,
		&u.PasswordHash,
		&u.AvatarURL,
		&u.DescricaoHTML,
		&u.BioPublica,
		&u.Pontos,
		&u.Ativo,
		&u.Roles,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO usuarios (nome, sobrenome, email, departamento, senha_hash, avatar_url,
            descricao_html, bio_publica, pontos, ativo, roles)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Nome,
		user.Sobrenome,
		user.Email,
		user.Departamento,
		user.PasswordHash,
		user.AvatarURL,
		user.DescricaoHTML,
		user.BioPublica,
		user.Pontos,
		user.Ativo,
		user.Roles,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE usuarios SET nome=$1, sobrenome=$2, email=$3, departamento=$4, senha_hash=$5,
            avatar_url=$6, descricao_html=$7, bio_publica=$8, pontos=$9, ativo=$10, roles=$11,
            updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		user.Nome,
		user.Sobrenome,
		user.Email,
		user.Departamento,
		user.PasswordHash,
		user.AvatarURL,
		user.DescricaoHTML,
		user.BioPublica,
		user.Pontos,
		user.Ativo,
		user.Roles,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE email=$1`, email))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) loadChildren(ctx context.Context, user *domain.User) error {
	rows, err := r.pool.Query(ctx, `
        SELECT id, msg, autor, created_at
        FROM usuario_feedbacks WHERE usuario_id=$1 ORDER BY created_at DESC`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.Msg, &fb.Autor, &fb.CreatedAt); err != nil {
			return err
		}
		user.Feedbacks = append(user.Feedbacks, fb)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	progRows, err := r.pool.Query(ctx, `
        SELECT curso_id, nome, concluido, concluido_em
        FROM usuario_cursos WHERE usuario_id=$1 ORDER BY curso_id`, user.ID)
	if err != nil {
		return err
	}
	defer progRows.Close()
	for progRows.Next() {
		var p domain.CourseProgress
		if err := progRows.Scan(&p.CursoID, &p.Nome, &p.Concluido, &p.ConcluidoEm); err != nil {
			return err
		}
		user.CursosProgresso = append(user.CursosProgresso, p)
	}
	return progRows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM usuarios WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM usuarios ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) SearchDirectory(ctx context.Context, query, departamento string, page, limit int) ([]domain.User, int, error) {
	where := `ativo = TRUE`
	args := []any{}
	idx := 1
	if departamento != "" {
		where += ` AND LOWER(departamento) = $1`
		args = append(args, departamento)
		idx++
	}
	if query != "" {
		pattern := "%" + query + "%"
		where += ` AND (nome ILIKE $` + strconv.Itoa(idx) +
			` OR sobrenome ILIKE $` + strconv.Itoa(idx) +
			` OR email ILIKE $` + strconv.Itoa(idx) + `)`
		args = append(args, pattern)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	listQuery := `SELECT ` + userColumns + ` FROM usuarios WHERE ` + where +
		` ORDER BY nome OFFSET $` + strconv.Itoa(idx) + ` LIMIT $` + strconv.Itoa(idx+1)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) AddFeedback(ctx context.Context, userID string, fb *domain.Feedback) error {
	const query = `
        INSERT INTO usuario_feedbacks (usuario_id, msg, autor)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, userID, fb.Msg, fb.Autor).Scan(&fb.ID, &fb.CreatedAt)
}

func (r *userRepository) UpsertProgress(ctx context.Context, userID string, p domain.CourseProgress) error {
	const query = `
        INSERT INTO usuario_cursos (usuario_id, curso_id, nome, concluido, concluido_em)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (usuario_id, curso_id)
        DO UPDATE SET nome=EXCLUDED.nome, concluido=EXCLUDED.concluido, concluido_em=EXCLUDED.concluido_em`
	_, err := r.pool.Exec(ctx, query, userID, p.CursoID, p.Nome, p.Concluido, p.ConcluidoEm)
	return err
}

func (r *userRepository) SetPoints(ctx context.Context, userID string, points int) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE usuarios SET pontos=$1, updated_at=NOW() WHERE id=$2`, points, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
