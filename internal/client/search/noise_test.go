package search

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsNoise(t *testing.T) {
	job := func(title, url, source string) models.Internship {
		return models.Internship{Title: title, Company: "Acme", URL: url, Source: source}
	}

	tests := []struct {
		name string
		in   models.Internship
		want bool
	}{
		{"real job", job("Software Engineering Intern", "https://acme.test/jobs/1", ""), false},
		{"digital is not .git", job("Digital Marketing Intern", "https://acme.test/jobs/2", ""), false},
		{"missing url", job("Intern", "", ""), true},
		{"readme", job("README", "https://github.com/a/b", ""), true},
		{"markdown link", job("Intern", "https://github.com/a/b/list.md", ""), true},
		{"phrase in url", job("Intern", "https://github.com/a/b/workflow", ""), true},
		{"path in title", job("src/main", "https://acme.test/x", ""), true},
		{"source file", job("index.js", "https://acme.test/x", ""), true},
		{"changelog", job("Changelog 2024", "https://acme.test/x", ""), true},
		{"github year folder", job("2025", "https://acme.test/x", "GitHub"), true},
		{"github range", job("2024-2025", "https://acme.test/x", "GitHub"), true},
		{"year outside github", job("2025", "https://acme.test/x", "Adzuna"), false},
		{"off-season", job("Off-Season Internships", "https://acme.test/x", ""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNoise(tt.in))
		})
	}
}

func TestFilterNoise_KeepsOrder(t *testing.T) {
	in := []models.Internship{
		{ID: "a", Title: "Intern A", Company: "X", URL: "https://x.test/a"},
		{ID: "b", Title: "LICENSE", Company: "X", URL: "https://x.test/b"},
		{ID: "c", Title: "Intern C", Company: "X", URL: "https://x.test/c"},
	}
	got := FilterNoise(in)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFormatPostedDate(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Feb 1, 2025", FormatPostedDate("2025-02-01", now))
	assert.Equal(t, "Feb 7, 2025", FormatPostedDate("3 days ago", now))
	assert.Equal(t, "Jan 27, 2025", FormatPostedDate("2 weeks ago", now))
	assert.Equal(t, "Feb 9, 2025", FormatPostedDate("1d", now))
	assert.Equal(t, "Feb 3, 2025", FormatPostedDate("2025-02-03T08:00:00Z", now))
	assert.Equal(t, "", FormatPostedDate("From GitHub", now))
	assert.Equal(t, "", FormatPostedDate("", now))
	assert.Equal(t, "soon", FormatPostedDate("soon", now))
}
