package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/interntrack/internal/client/alerts"
	"github.com/dmitrijs2005/interntrack/internal/common"
)

func (a *App) Alerts(ctx context.Context) error {
	if a.alerts == nil {
		return common.ErrNotConfigured
	}
	subs, err := a.alerts.List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		printlnFn("No keyword alerts. Add one with 'alert <keyword>'.")
		return nil
	}
	for _, s := range subs {
		printlnFn(fmt.Sprintf("%s  %s", s.ID, s.Keyword))
	}
	return nil
}

// AddAlert subscribes to new listings matching a keyword.
func (a *App) AddAlert(ctx context.Context, args []string) error {
	if a.alerts == nil {
		return common.ErrNotConfigured
	}
	keyword, err := a.argOrPrompt(args, "Keyword")
	if err != nil {
		return err
	}

	sub, err := a.alerts.Add(ctx, keyword)
	if err != nil {
		if errors.Is(err, alerts.ErrSubscriptionLimit) {
			printlnFn("You already have the maximum number of alerts. Remove one with 'unalert <id>'.")
			return nil
		}
		return err
	}
	printlnFn(fmt.Sprintf("Alert for %q is active (%s).", sub.Keyword, sub.ID))
	return nil
}

func (a *App) DeleteAlert(ctx context.Context, args []string) error {
	if a.alerts == nil {
		return common.ErrNotConfigured
	}
	if len(args) != 1 {
		return usage("unalert <id>")
	}
	if err := a.alerts.Delete(ctx, args[0]); err != nil {
		return err
	}
	printlnFn("Alert removed.")
	return nil
}
