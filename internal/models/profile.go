package models

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/interntrack/internal/common"
)

const (
	MaxNameLength     = 50
	MaxUsernameLength = 30
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Profile is the per-user record kept 1:1 with Session.UserID.
// JSON tags follow the primary API (camelCase); the store uses snake_case
// columns and does its own mapping.
type Profile struct {
	UserID                 string  `json:"id"`
	FirstName              string  `json:"firstName"`
	LastName               string  `json:"lastName"`
	Username               string  `json:"username"`
	AvatarURL              *string `json:"avatarUrl"`
	Email                  string  `json:"email,omitempty"`
	ProjectGenerationCount int     `json:"projectGenerationCount"`
}

// ProfilePatch is a partial update. Nil fields are left untouched.
type ProfilePatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Username == nil && p.AvatarURL == nil
}

// Validate checks the field constraints of a patch. Only fields that are
// present are checked. The returned error is a *common.ValidationError
// listing every offending field.
func (p ProfilePatch) Validate() error {
	var verr *common.ValidationError
	add := func(field, msg string) {
		if verr == nil {
			verr = common.NewValidationError(field, msg)
			return
		}
		verr.Fields[field] = msg
	}

	if p.FirstName != nil && utf8.RuneCountInString(*p.FirstName) > MaxNameLength {
		add("firstName", "First name must be 50 characters or less")
	}
	if p.LastName != nil && utf8.RuneCountInString(*p.LastName) > MaxNameLength {
		add("lastName", "Last name must be 50 characters or less")
	}
	if p.Username != nil {
		switch {
		case len(*p.Username) > MaxUsernameLength:
			add("username", "Username must be 30 characters or less")
		case !usernamePattern.MatchString(*p.Username):
			add("username", "Username can only contain letters, numbers, underscores, and hyphens")
		}
	}

	if verr != nil {
		return verr
	}
	return nil
}

// Apply returns a copy of p with the patch shallow-merged in.
func (p Profile) Apply(patch ProfilePatch) Profile {
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Username != nil {
		p.Username = *patch.Username
	}
	if patch.AvatarURL != nil {
		u := *patch.AvatarURL
		p.AvatarURL = &u
	}
	return p
}

// DefaultProfile is the record created when a user has none yet. The
// username is seeded from the local part of the e-mail address.
func DefaultProfile(userID, email string) Profile {
	local, _, _ := strings.Cut(email, "@")
	return Profile{
		UserID:   userID,
		Username: local,
		Email:    email,
	}
}
