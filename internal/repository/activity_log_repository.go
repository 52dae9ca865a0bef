package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
)

// ActivityLogRepository defines persistence access for free-form activity logs.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
	InsertMany(ctx context.Context, entries []domain.ActivityLog) error
	Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository returns a Postgres-backed implementation.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO logs (source, action, ok, meta)
        VALUES ($1, $2, $3, $4)
        RETURNING id, ts`
	return r.pool.QueryRow(ctx, query, entry.Source, entry.Action, entry.OK, entry.Meta).
		Scan(&entry.ID, &entry.TS)
}

func (r *activityLogRepository) InsertMany(ctx context.Context, entries []domain.ActivityLog) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`INSERT INTO logs (source, action, ok, meta) VALUES ($1, $2, $3, $4)`,
			e.Source, e.Action, e.OK, e.Meta)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *activityLogRepository) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ts, source, action, ok, meta FROM logs ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ActivityLog, 0)
	for rows.Next() {
		var e domain.ActivityLog
		if err := rows.Scan(&e.ID, &e.TS, &e.Source, &e.Action, &e.OK, &e.Meta); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
