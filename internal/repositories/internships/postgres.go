// Package internships reads the internship listings table.
package internships

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/dbx"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/dmitrijs2005/interntrack/internal/repositories/query"
)

// DefaultLimit bounds a single search.
const DefaultLimit = 100

// Filter narrows a search. Empty fields match everything.
type Filter struct {
	Keyword string
	// MatchDescription extends the keyword match to the description column.
	MatchDescription bool
	Location         string
	Limit            int
}

type Repository interface {
	Search(ctx context.Context, f Filter) ([]models.Internship, error)
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (f Filter) conditions() []query.Cond {
	var conds []query.Cond

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := query.Contains(kw)
		or := []query.Cond{query.ILike("title", p), query.ILike("company", p)}
		if f.MatchDescription {
			or = append(or, query.ILike("description", p))
		}
		conds = append(conds, query.Or(or...))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, query.ILike("location", query.Contains(loc)))
	}
	return conds
}

func (r *PostgresRepository) Search(ctx context.Context, f Filter) ([]models.Internship, error) {
	where, args, err := query.Where(1, f.conditions()...)
	if err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	args = append(args, limit)

	q := `SELECT id, title, company, location, description, url, posted_date, source FROM internships` +
		where + fmt.Sprintf(` ORDER BY posted_date DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Internship, 0)
	for rows.Next() {
		var i models.Internship
		if err := rows.Scan(&i.ID, &i.Title, &i.Company, &i.Location, &i.Description, &i.URL, &i.PostedDate, &i.Source); err != nil {
			return nil, fmt.Errorf("failed to scan internship row: %w", err)
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate internship rows: %w", err)
	}
	return result, nil
}
