// Package profiles stores user profiles in the profiles table.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/dbx"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

const profileColumns = `id, first_name, last_name, username, avatar_url, email, project_generation_count`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	var avatar sql.NullString
	if err := row.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Username, &avatar, &p.Email, &p.ProjectGenerationCount); err != nil {
		return nil, err
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	return p, nil
}

// Get returns common.ErrNotFound when the user has no profile row.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (id, first_name, last_name, username, avatar_url, email)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + profileColumns

	created, err := scanProfile(r.db.QueryRowContext(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.Username, p.AvatarURL, p.Email))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// Upsert writes the fields present in patch, creating the row when absent.
// Fields missing from the patch keep their stored (or default) values.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	cols := []string{"id"}
	args := []any{userID}

	add := func(col string, v *string) {
		if v == nil {
			return
		}
		cols = append(cols, col)
		args = append(args, *v)
	}
	add("first_name", patch.FirstName)
	add("last_name", patch.LastName)
	add("username", patch.Username)
	add("avatar_url", patch.AvatarURL)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(cols))
	for _, c := range cols[1:] {
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	sets = append(sets, "updated_at = now()")

	query := `INSERT INTO profiles (` + strings.Join(cols, ", ") + `)
		 VALUES (` + strings.Join(placeholders, ", ") + `)
		 ON CONFLICT (id) DO UPDATE SET ` + strings.Join(sets, ", ") + `
		 RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
