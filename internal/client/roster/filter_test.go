package roster

import (
	"testing"

	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	apps := []models.Application{
		{ID: "1", Title: "Backend Intern", Company: "Acme", Status: models.StatusApplied},
		{ID: "2", Title: "Data Intern", Company: "Globex", Status: models.StatusSaved},
		{ID: "3", Title: "SRE", Company: "ACME Labs", Status: models.StatusSaved},
	}

	ids := func(in []models.Application) []string {
		out := []string{}
		for _, a := range in {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(apps, "", "")))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(apps, " acme ", "")))
	assert.Equal(t, []string{"2", "3"}, ids(Filter(apps, "", models.StatusSaved)))
	assert.Equal(t, []string{"3"}, ids(Filter(apps, "acme", models.StatusSaved)))
	assert.Equal(t, []string{"2"}, ids(Filter(apps, "DATA", "")))
	assert.Empty(t, Filter(apps, "nothing", ""))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name        string
		page        int
		wantFirst   int
		wantLen     int
		wantCurrent int
	}{
		{"first", 1, 0, 10, 1},
		{"last partial", 3, 20, 3, 3},
		{"below range", 0, 0, 10, 1},
		{"above range", 9, 20, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cur, pages := Paginate(items, tt.page, PageSize)
			assert.Equal(t, 3, pages)
			assert.Equal(t, tt.wantCurrent, cur)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got[0])
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got, cur, pages := Paginate([]string{}, 5, 0)
	assert.Empty(t, got)
	assert.Equal(t, 1, cur)
	assert.Equal(t, 0, pages)
}
