package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeDate = regexp.MustCompile(`(\d+)\s*([a-z]+)(?:\s*ago)?`)

// FormatPostedDate renders a posted date like "Jan 2, 2006". It accepts
// ISO dates and relative forms such as "3 days ago" or "2w". Values it
// cannot read are returned unchanged; GitHub placeholders give "".
func FormatPostedDate(raw string, now time.Time) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" || strings.Contains(lower, "from github") {
		return ""
	}

	if t, err := time.Parse("2006-01-02", lower); err == nil {
		return t.Format("Jan 2, 2006")
	}

	if m := relativeDate.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		var d time.Duration
		switch unit := m[2]; {
		case strings.HasPrefix(unit, "day"), unit == "d":
			d = time.Duration(n) * 24 * time.Hour
		case strings.HasPrefix(unit, "week"), unit == "w":
			d = time.Duration(n) * 7 * 24 * time.Hour
		case strings.HasPrefix(unit, "month"):
			d = time.Duration(n) * 30 * 24 * time.Hour
		case strings.HasPrefix(unit, "hour"), unit == "h":
			d = time.Duration(n) * time.Hour
		case strings.HasPrefix(unit, "minute"):
			d = time.Duration(n) * time.Minute
		}
		if d > 0 {
			return now.Add(-d).Format("Jan 2, 2006")
		}
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
		return t.Format("Jan 2, 2006")
	}
	return raw
}
