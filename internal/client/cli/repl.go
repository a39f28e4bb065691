package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Recover(ctx context.Context, args []string) error
	DeleteAccount(ctx context.Context) error

	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	UploadAvatar(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context) error

	Applications(ctx context.Context, args []string) error
	AddApplication(ctx context.Context) error
	SetStatus(ctx context.Context, args []string) error
	EditNotes(ctx context.Context, args []string) error
	DeleteApplication(ctx context.Context, args []string) error

	Search(ctx context.Context) error
	Results(ctx context.Context, args []string) error
	Track(ctx context.Context, args []string) error

	Alerts(ctx context.Context) error
	AddAlert(ctx context.Context, args []string) error
	DeleteAlert(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: signin, signup, reset, recover <link>, exit"
	helpSignedIn  = "Available commands: profile, edit, avatar <file>, passwd, " +
		"search, results <page>, track <n>, " +
		"apps [query] [status] [page], add, status <id> <status>, notes <id>, rm <id>, " +
		"alerts, alert <keyword>, unalert <id>, signout, delete-account, exit"
)

// runREPL reads one command per line from r and dispatches it to a.
//
// Commands that need a session are refused until the user signs in. A
// failing command prints its error and the loop goes on. The loop exits on
// EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("it%s> ", prefixSpace(statusFn())))

		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue
		}

		run, public, ok := lookup(a, cmd, args)
		switch {
		case !ok:
			printlnFn("Unknown command:", cmd)
		case !public && !a.isLoggedIn():
			printlnFn("Please sign in first.")
		default:
			if err := run(ctx); err != nil {
				printlnFn("Error:", describe(err))
			}
		}

		if err != nil {
			return
		}
	}
}

func lookup(a execIface, cmd string, args []string) (run func(context.Context) error, public bool, ok bool) {
	withArgs := func(fn func(context.Context, []string) error) func(context.Context) error {
		return func(ctx context.Context) error { return fn(ctx, args) }
	}

	switch cmd {
	case "signin", "login":
		return a.SignIn, true, true
	case "signup", "register":
		return a.SignUp, true, true
	case "reset":
		return a.ResetPassword, true, true
	case "recover":
		return withArgs(a.Recover), true, true

	case "signout", "logout":
		return a.SignOut, false, true
	case "delete-account":
		return a.DeleteAccount, false, true
	case "profile":
		return a.ShowProfile, false, true
	case "edit":
		return a.EditProfile, false, true
	case "avatar":
		return withArgs(a.UploadAvatar), false, true
	case "passwd":
		return a.ChangePassword, false, true
	case "apps", "list", "l":
		return withArgs(a.Applications), false, true
	case "add":
		return a.AddApplication, false, true
	case "status":
		return withArgs(a.SetStatus), false, true
	case "notes":
		return withArgs(a.EditNotes), false, true
	case "rm", "delete":
		return withArgs(a.DeleteApplication), false, true
	case "search":
		return a.Search, false, true
	case "results", "page":
		return withArgs(a.Results), false, true
	case "track":
		return withArgs(a.Track), false, true
	case "alerts":
		return a.Alerts, false, true
	case "alert":
		return withArgs(a.AddAlert), false, true
	case "unalert":
		return withArgs(a.DeleteAlert), false, true
	}
	return nil, false, false
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
