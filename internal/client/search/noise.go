package search

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

// Listings scraped from repositories often include files and folders rather
// than jobs. The filter below drops those.

var noisePatterns = compileAll(
	`readme`, `contributing`, `archived`, `\.md$`, `season`,
	`^https://github\.com.*/(readme|contributing)`, `license`,
	`code_of_conduct`, `security`, `issue_template`,
	`pull_request_template`, `\.github`, `\.gitignore`, `\.git`,
	`config\.yml`, `\.gitattributes`,
)

var noisePhrases = []string{
	".github", ".gitignore", "config", "workflow", "template", "docs/",
	".git/", "dependabot", "actions", "hooks", "renovate", "husky",
	"circleci", "travis", "publish", "docker", "linting", "testing",
	"jest.config", "webpack", "babel", "eslint", "prettier", "ci.yml",
	"github-", "repo", "settings", "releases", "tags", "stale",
	"codeowners", "funding", "package.json", "npm", "setup",
	"scripts", "modules", "node_modules", "build",
}

var sourceFilePattern = regexp.MustCompile(`\.(js|py|java|json|yaml|yml)$`)

var githubTitlePatterns = compileAll(
	`^\.`, `^\d{4}$`, `^\d{4}-\d{4}$`, `^archived/`, `^archived-`,
	`off-season`, `^wiki`, `^year-`, `^page-`, `^list-`,
	`^index`, `^future`, `^past`,
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// IsNoise reports whether a listing is not a real job posting.
func IsNoise(in models.Internship) bool {
	if in.Title == "" || in.Company == "" || in.URL == "" {
		return true
	}
	title := strings.ToLower(in.Title)
	link := strings.ToLower(in.URL)

	for _, p := range noisePatterns {
		if p.MatchString(title) || p.MatchString(link) {
			return true
		}
	}
	for _, ph := range noisePhrases {
		if strings.Contains(title, ph) || strings.Contains(link, ph) {
			return true
		}
	}
	if strings.Contains(title, "/") || strings.HasPrefix(title, ".") ||
		sourceFilePattern.MatchString(title) ||
		strings.Contains(title, "changelog") || strings.Contains(title, "install") {
		return true
	}
	if in.Source == "GitHub" {
		for _, p := range githubTitlePatterns {
			if p.MatchString(title) {
				return true
			}
		}
	}
	return false
}

// FilterNoise returns the listings that are real postings, in order.
func FilterNoise(items []models.Internship) []models.Internship {
	out := make([]models.Internship, 0, len(items))
	for _, in := range items {
		if !IsNoise(in) {
			out = append(out, in)
		}
	}
	return out
}
