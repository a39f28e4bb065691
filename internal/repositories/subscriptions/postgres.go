// Package subscriptions stores keyword alert subscriptions.
package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/dbx"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, keyword, created_at FROM subscriptions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Keyword, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscription rows: %w", err)
	}
	return result, nil
}

// FindByKeyword returns common.ErrNotFound when the user has no such keyword.
func (r *PostgresRepository) FindByKeyword(ctx context.Context, userID, keyword string) (*models.Subscription, error) {
	s := &models.Subscription{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, keyword, created_at FROM subscriptions
		 WHERE user_id = $1 AND keyword = $2`, userID, keyword).
		Scan(&s.ID, &s.UserID, &s.Keyword, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID, keyword string) (*models.Subscription, error) {
	s := &models.Subscription{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions (id, user_id, keyword)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, keyword, created_at`,
		uuid.NewString(), userID, keyword).
		Scan(&s.ID, &s.UserID, &s.Keyword, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
