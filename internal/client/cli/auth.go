package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/common"
)

// Prompt indirections, replaced in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getStatus     = GetStatus
	getNotes      = GetNotes
)

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// argOrPrompt returns the joined args, or asks for the value when none
// were given.
func (a *App) argOrPrompt(args []string, text string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return a.prompt(text)
}

// newPassword reads a password twice. The result is returned as a string
// since that is what the auth provider takes; the byte slices are wiped.
func (a *App) newPassword() (string, error) {
	pw, err := getPassword(a.out, "New password")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)

	again, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(again)

	if string(pw) != string(again) {
		return "", errPasswordMismatch
	}
	return string(pw), nil
}

// SignIn prompts for credentials and signs in.
func (a *App) SignIn(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.SignIn(ctx, email, string(password)); err != nil {
		return err
	}

	printlnFn("Signed in as", email)
	a.restoreSearch(ctx)
	return nil
}

// SignUp creates an account. Depending on the auth service the user is
// either signed in right away or has to confirm the address first.
func (a *App) SignUp(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.newPassword()
	if err != nil {
		return err
	}

	pending, err := a.sessions.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	if pending {
		printlnFn("Check your email to confirm your account, then sign in.")
		return nil
	}
	printlnFn("Account created. Signed in as", email)
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	return a.sessions.SignOut(ctx)
}

// ResetPassword sends a recovery link to the given address.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := a.prompt("Enter the email of your account")
	if err != nil {
		return err
	}
	if err := a.sessions.ResetPassword(ctx, email); err != nil {
		return err
	}
	printlnFn("If an account exists for", email+", a password reset link has been sent.")
	return nil
}

// Recover consumes a recovery link and sets a new password.
func (a *App) Recover(ctx context.Context, args []string) error {
	link, err := a.argOrPrompt(args, "Paste the link from the reset email")
	if err != nil {
		return err
	}
	if err := a.sessions.BeginRecovery(ctx, link); err != nil {
		return err
	}

	printlnFn("Choose a new password.")
	password, err := a.newPassword()
	if err != nil {
		return err
	}
	if err := a.sessions.CompleteRecovery(ctx, password); err != nil {
		return err
	}
	printlnFn("Password updated.")
	return nil
}

// DeleteAccount removes the account after an explicit confirmation.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := a.prompt("This permanently deletes your account and all data. Type DELETE to confirm")
	if err != nil {
		return err
	}
	if answer != "DELETE" {
		printlnFn("Cancelled.")
		return nil
	}
	if err := a.sessions.DeleteAccount(ctx); err != nil {
		return err
	}
	printlnFn("Account deleted.")
	return nil
}
