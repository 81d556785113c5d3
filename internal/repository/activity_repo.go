package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-admin/internal/model"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Log(ctx context.Context, entry model.Activity) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auth_activity (id, user_id, action, client_ip, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.Action, entry.ClientIP, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

// List returns the newest entries for a user first.
func (r *ActivityRepository) List(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, action, client_ip, occurred_at
		 FROM auth_activity
		 WHERE user_id = $1
		 ORDER BY occurred_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Activity])
	if err != nil {
		return nil, fmt.Errorf("scan activity: %w", err)
	}
	return entries, nil
}
