package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/client/roster"
	"github.com/dmitrijs2005/interntrack/internal/common"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

// rosterErr reports why a roster mutation returned false.
func (a *App) rosterErr() error {
	err := a.roster.Err()
	if err == nil {
		return common.ErrNotAuthenticated
	}
	a.roster.ClearError()
	return err
}

func (a *App) requireRoster() error {
	if a.roster == nil {
		return common.ErrNotConfigured
	}
	return nil
}

// Applications lists tracked applications. Arguments are free-form: a
// known status filters by status, a number picks the page, anything else
// is matched against title and company.
func (a *App) Applications(ctx context.Context, args []string) error {
	if err := a.requireRoster(); err != nil {
		return err
	}

	var (
		terms  []string
		status models.Status
		page   = 1
	)
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			page = n
			continue
		}
		if s, err := models.ParseStatus(arg); err == nil {
			status = s
			continue
		}
		terms = append(terms, arg)
	}

	if !a.roster.Fetch(ctx) {
		return a.rosterErr()
	}

	all := a.roster.Applications()
	if len(all) == 0 {
		printlnFn("No applications yet. Use 'search' and 'track', or 'add'.")
		return nil
	}

	filtered := roster.Filter(all, strings.Join(terms, " "), status)
	items, cur, pages := roster.Paginate(filtered, page, roster.PageSize)
	if len(items) == 0 {
		printlnFn("No applications match.")
		return nil
	}

	for _, app := range items {
		line := fmt.Sprintf("%s  %-10s  %s @ %s", app.ID, app.Status, app.Title, app.Company)
		if app.Location != nil && *app.Location != "" {
			line += " (" + *app.Location + ")"
		}
		printlnFn(line)
	}
	printlnFn(fmt.Sprintf("Page %d of %d (%d applications)", cur, pages, len(filtered)))
	return nil
}

// AddApplication records an application the user found elsewhere.
func (a *App) AddApplication(ctx context.Context) error {
	if err := a.requireRoster(); err != nil {
		return err
	}

	var in models.ManualApplication
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Title", &in.Title},
		{"Company", &in.Company},
		{"Location (optional)", &in.Location},
		{"Posting URL (optional)", &in.URL},
	}
	for _, p := range prompts {
		v, err := a.prompt(p.text)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	var err error
	if in.Status, err = getStatus(a.reader, models.StatusApplied, a.out); err != nil {
		return err
	}
	if in.Notes, err = getNotes(a.reader, "Notes (optional)", a.out); err != nil {
		return err
	}

	if !a.roster.CreateManual(ctx, in) {
		return a.rosterErr()
	}
	printlnFn("Application added.")
	return nil
}

// SetStatus moves an application to another pipeline stage.
func (a *App) SetStatus(ctx context.Context, args []string) error {
	if err := a.requireRoster(); err != nil {
		return err
	}
	if len(args) != 2 {
		return usage("status <id> <" + statusNames() + ">")
	}
	status, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}
	if !a.roster.UpdateStatus(ctx, args[0], status) {
		return a.rosterErr()
	}
	printlnFn("Status set to", string(status)+".")
	return nil
}

// EditNotes replaces the notes of an application. An empty text clears them.
func (a *App) EditNotes(ctx context.Context, args []string) error {
	if err := a.requireRoster(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("notes <id>")
	}
	notes, err := getNotes(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}
	if !a.roster.UpdateNotes(ctx, args[0], notes) {
		return a.rosterErr()
	}
	printlnFn("Notes saved.")
	return nil
}

func (a *App) DeleteApplication(ctx context.Context, args []string) error {
	if err := a.requireRoster(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("rm <id>")
	}
	if !a.roster.Delete(ctx, args[0]) {
		return a.rosterErr()
	}
	printlnFn("Application deleted.")
	return nil
}

func statusNames() string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = strings.ToLower(string(s))
	}
	return strings.Join(names, "|")
}
