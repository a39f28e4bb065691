package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/interntrack/internal/client/roster"
	"github.com/dmitrijs2005/interntrack/internal/client/search"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

// Search asks for keyword, location and posting date and shows the first
// page of matches.
func (a *App) Search(ctx context.Context) error {
	var c models.SearchCriteria
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Keyword (e.g. software, marketing)", &c.Keyword},
		{"Location (optional)", &c.Location},
		{"Posted date (optional, e.g. jan 15)", &c.Date},
	}
	for _, p := range prompts {
		v, err := a.prompt(p.text)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	results, err := a.search.Search(ctx, c)
	if err != nil {
		return err
	}
	a.results = results
	a.page = 1

	if len(results) == 0 {
		printlnFn("No internships found.")
		return nil
	}
	a.printResults()
	return nil
}

// Results shows another page of the last search.
func (a *App) Results(ctx context.Context, args []string) error {
	if len(a.results) == 0 {
		printlnFn("No results. Run 'search' first.")
		return nil
	}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("results <page>")
		}
		_, cur, _ := roster.Paginate(a.results, n, roster.PageSize)
		a.page = cur
		a.search.SavePage(ctx, cur)
	}
	a.printResults()
	return nil
}

// Track adds result number n of the last search to the roster.
func (a *App) Track(ctx context.Context, args []string) error {
	if err := a.requireRoster(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("track <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.results) {
		return errBadIndex
	}

	in := a.results[n-1]
	if err := a.roster.Track(ctx, in); err != nil {
		if errors.Is(err, roster.ErrAlreadyTracked) {
			printlnFn("Already tracked.")
			return nil
		}
		return err
	}
	printlnFn(fmt.Sprintf("Saved %q at %s.", in.Title, in.Company))
	return nil
}

func (a *App) printResults() {
	items, cur, pages := roster.Paginate(a.results, a.page, roster.PageSize)

	var tracked map[string]struct{}
	if a.roster != nil {
		tracked = a.roster.TrackedIDs()
	}

	now := a.now()
	offset := (cur - 1) * roster.PageSize
	for i, in := range items {
		mark := " "
		if _, ok := tracked[in.ID]; ok {
			mark = "*"
		}
		line := fmt.Sprintf("%3d.%s %s @ %s", offset+i+1, mark, in.Title, in.Company)
		if in.Location != "" {
			line += " (" + in.Location + ")"
		}
		if posted := search.FormatPostedDate(in.PostedDate, now); posted != "" {
			line += ", posted " + posted
		}
		printlnFn(line)
	}
	printlnFn(fmt.Sprintf("Page %d of %d (%d results)", cur, pages, len(a.results)))
}

// restoreSearch brings back the cached search of the signed-in user.
func (a *App) restoreSearch(ctx context.Context) {
	e := a.search.Restore(ctx)
	if e == nil || len(e.Results) == 0 {
		return
	}
	a.results = e.Results
	a.page = e.CurrentPage
	if a.page < 1 {
		a.page = 1
	}
	printlnFn(fmt.Sprintf("Restored %d results for %q. Type 'results' to view them.", len(e.Results), e.SearchInput))
}
