package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// AnnouncementFilter narrows feed queries; zero values mean "no constraint".
type AnnouncementFilter struct {
	Tipo         string
	Status       string
	Visibilidade string
	AutorID      string
	TargetUserID string
	Query        string
	Skip         int
	Limit        int
}

// AnnouncementRepository defines persistence access for the feed.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	List(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Announcement, error)
	AddComment(ctx context.Context, announcementID string, comment *domain.Comment) error
	ListComments(ctx context.Context, announcementIDs []string) (map[string][]domain.Comment, error)
	GetUserMinis(ctx context.Context, ids []string) (map[string]domain.UserMini, error)
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository returns a Postgres-backed implementation.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

const announcementColumns = `id, tipo, titulo, conteudo_html, conteudo, imagem, visibilidade,
        tags, status, COALESCE(autor_id::text, ''), COALESCE(target_user_id::text, ''),
        created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*domain.Announcement, error) {
	var a domain.Announcement
	if err := row.Scan(
		&a.ID,
		&a.Tipo,
		&a.Titulo,
		&a.ConteudoHTML,
		&a.Conteudo,
		&a.Imagem,
		&a.Visibilidade,
		&a.Tags,
		&a.Status,
		&a.AutorID,
		&a.TargetUserID,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	const query = `
        INSERT INTO comunicados (tipo, titulo, conteudo_html, conteudo, imagem, visibilidade,
            tags, status, autor_id, target_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, NULLIF($10, '')::uuid)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		a.Tipo,
		a.Titulo,
		a.ConteudoHTML,
		a.Conteudo,
		a.Imagem,
		a.Visibilidade,
		a.Tags,
		a.Status,
		a.AutorID,
		a.TargetUserID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	return scanAnnouncement(r.pool.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM comunicados WHERE id=$1`, id))
}

func (r *announcementRepository) List(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM comunicados WHERE 1=1`
	args := []any{}
	add := func(clause string, val any) {
		args = append(args, val)
		query += clause + `$` + strconv.Itoa(len(args))
	}

	if filter.Tipo != "" {
		add(` AND tipo=`, filter.Tipo)
	}
	if filter.Status != "" {
		add(` AND status=`, filter.Status)
	}
	if filter.Visibilidade != "" {
		add(` AND visibilidade=`, filter.Visibilidade)
	}
	if filter.AutorID != "" {
		add(` AND autor_id=`, filter.AutorID)
	}
	if filter.TargetUserID != "" {
		add(` AND target_user_id=`, filter.TargetUserID)
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := `$` + strconv.Itoa(len(args))
		query += ` AND (titulo ILIKE ` + n + ` OR conteudo ILIKE ` + n + ` OR conteudo_html ILIKE ` + n + `)`
	}

	query += ` ORDER BY created_at DESC`
	add(` OFFSET `, filter.Skip)
	add(` LIMIT `, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *announcementRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Announcement, error) {
	const query = `
        UPDATE comunicados SET status=$1, updated_at=NOW() WHERE id=$2
        RETURNING ` + announcementColumns
	return scanAnnouncement(r.pool.QueryRow(ctx, query, status, id))
}

func (r *announcementRepository) AddComment(ctx context.Context, announcementID string, comment *domain.Comment) error {
	const query = `
        INSERT INTO comunicado_comentarios (comunicado_id, texto, autor_id, autor_nome)
        VALUES ($1, $2, NULLIF($3, '')::uuid, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		announcementID,
		comment.Texto,
		comment.AutorID,
		comment.AutorNome,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *announcementRepository) ListComments(ctx context.Context, announcementIDs []string) (map[string][]domain.Comment, error) {
	out := make(map[string][]domain.Comment, len(announcementIDs))
	if len(announcementIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT comunicado_id, id, texto, COALESCE(autor_id::text, ''), autor_nome, created_at
        FROM comunicado_comentarios
        WHERE comunicado_id = ANY($1)
        ORDER BY created_at`, announcementIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var parent string
		var c domain.Comment
		if err := rows.Scan(&parent, &c.ID, &c.Texto, &c.AutorID, &c.AutorNome, &c.CreatedAt); err != nil {
			return nil, err
		}
		out[parent] = append(out[parent], c)
	}
	return out, rows.Err()
}

// GetUserMinis resolves the compact author/target projections joined into
// expanded feed responses.
func (r *announcementRepository) GetUserMinis(ctx context.Context, ids []string) (map[string]domain.UserMini, error) {
	out := make(map[string]domain.UserMini, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, nome, sobrenome, avatar_url, departamento
        FROM usuarios WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.UserMini
		if err := rows.Scan(&m.ID, &m.Nome, &m.Sobrenome, &m.AvatarURL, &m.Departamento); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}
