package roster

import (
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

const PageSize = 10

// Filter returns the applications whose title or company contains query
// (case-insensitive) and, when status is set, whose status matches.
func Filter(apps []models.Application, query string, status models.Status) []models.Application {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if status != "" && a.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.Company), q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Paginate returns one page of items. page is clamped to [1, pages]; pages
// is zero for an empty input. A non-positive size means PageSize.
func Paginate[T any](items []T, page, size int) (out []T, current, pages int) {
	if size <= 0 {
		size = PageSize
	}
	pages = (len(items) + size - 1) / size

	current = page
	if current > pages {
		current = pages
	}
	if current < 1 {
		current = 1
	}

	start := (current - 1) * size
	if start >= len(items) {
		return []T{}, current, pages
	}
	end := min(start+size, len(items))
	return items[start:end], current, pages
}
