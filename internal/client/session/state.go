package session

// State is the lifecycle state of the session store.
type State int

const (
	Uninitialized State = iota
	Loading
	Authenticated
	Anonymous
	// Recovering means a password-recovery token was accepted: a session
	// exists, but the user is not logged in until a new password is set.
	Recovering
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	case Recovering:
		return "recovering"
	}
	return "unknown"
}
