// Package applications stores tracked internship applications. Every
// statement is scoped by user_id so a caller only ever touches its own rows.
package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/dbx"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/query"
	"github.com/google/uuid"
)

const applicationColumns = `id, user_id, internship_id, title, company, location, description, url, status, notes, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	a := &models.Application{}
	var location, description, url, notes sql.NullString
	var status string

	err := row.Scan(&a.ID, &a.UserID, &a.InternshipID, &a.Title, &a.Company,
		&location, &description, &url, &status, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Status = models.Status(status)
	a.Location = nullable(location)
	a.Description = nullable(description)
	a.URL = nullable(url)
	a.Notes = nullable(notes)
	return a, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func (r *PostgresRepository) find(ctx context.Context, conds ...query.Cond) ([]models.Application, error) {
	where, args, err := query.Where(1, conds...)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications`+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate application rows: %w", err)
	}
	return result, nil
}

// List returns the user's applications, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Application, error) {
	return r.find(ctx, query.Eq("user_id", userID))
}

func (r *PostgresRepository) FindByInternship(ctx context.Context, userID string, internshipIDs ...string) ([]models.Application, error) {
	ids := make([]any, len(internshipIDs))
	for i, id := range internshipIDs {
		ids[i] = id
	}
	return r.find(ctx, query.Eq("user_id", userID), query.In("internship_id", ids...))
}

// Create inserts a and returns the stored row. A missing ID is generated.
func (r *PostgresRepository) Create(ctx context.Context, a models.Application) (*models.Application, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.StatusSaved
	}

	q := `INSERT INTO applications (id, user_id, internship_id, title, company, location, description, url, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING ` + applicationColumns

	created, err := scanApplication(r.db.QueryRowContext(ctx, q,
		a.ID, a.UserID, a.InternshipID, a.Title, a.Company,
		a.Location, a.Description, a.URL, string(a.Status), a.Notes))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) updateReturning(ctx context.Context, q string, args ...any) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return updatedAt, nil
}

// UpdateStatus stamps updated_at and returns it.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, userID, id string, status models.Status) (time.Time, error) {
	return r.updateReturning(ctx,
		`UPDATE applications SET status = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING updated_at`,
		string(status), id, userID)
}

func (r *PostgresRepository) UpdateNotes(ctx context.Context, userID, id, notes string) (time.Time, error) {
	return r.updateReturning(ctx,
		`UPDATE applications SET notes = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING updated_at`,
		notes, id, userID)
}

// Delete removes the row if it exists. Deleting an absent row is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
