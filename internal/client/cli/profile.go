package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/interntrack/internal/client/profile"
	"github.com/dmitrijs2005/interntrack/internal/filex"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

// openUpload is a test seam for filex.OpenUpload.
var openUpload = filex.OpenUpload

func (a *App) ShowProfile(ctx context.Context) error {
	if err := a.profiles.Fetch(ctx); err != nil {
		return err
	}
	p := a.profiles.Snapshot().Profile
	if p == nil {
		printlnFn("No profile yet.")
		return nil
	}

	printlnFn("Email:     ", p.Email)
	printlnFn("Username:  ", orDash(p.Username))
	printlnFn("First name:", orDash(p.FirstName))
	printlnFn("Last name: ", orDash(p.LastName))
	avatar := ""
	if p.AvatarURL != nil {
		avatar = *p.AvatarURL
	}
	printlnFn("Avatar:    ", orDash(avatar))
	return nil
}

// EditProfile asks for each editable field. An empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	cur := a.profiles.Snapshot().Profile
	if cur == nil {
		if err := a.profiles.Fetch(ctx); err != nil {
			return err
		}
		cur = a.profiles.Snapshot().Profile
	}
	if cur == nil {
		cur = &models.Profile{}
	}

	var patch models.ProfilePatch
	fields := []struct {
		label string
		cur   string
		dst   **string
	}{
		{"First name", cur.FirstName, &patch.FirstName},
		{"Last name", cur.LastName, &patch.LastName},
		{"Username", cur.Username, &patch.Username},
	}
	for _, f := range fields {
		v, err := a.prompt(fmt.Sprintf("%s [%s]", f.label, f.cur))
		if err != nil {
			return err
		}
		if v != "" && v != f.cur {
			*f.dst = &v
		}
	}

	if patch.IsEmpty() {
		printlnFn("Nothing to update.")
		return nil
	}
	if err := a.profiles.Update(ctx, patch); err != nil {
		return err
	}
	printlnFn("Profile updated.")
	return nil
}

// UploadAvatar uploads an image file and makes it the profile picture.
func (a *App) UploadAvatar(ctx context.Context, args []string) error {
	path, err := a.argOrPrompt(args, "Path to an image (JPEG, PNG, GIF or WebP, up to 5MB)")
	if err != nil {
		return err
	}
	up, err := openUpload(path)
	if err != nil {
		return err
	}
	defer up.Close()

	url, err := a.profiles.UploadAvatar(ctx, profile.AvatarFile{
		Name:        up.Name,
		ContentType: up.ContentType,
		Size:        up.Size,
		Body:        up,
	})
	if err != nil {
		return err
	}
	printlnFn("Avatar updated:", url)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	printlnFn("Choose a new password.")
	password, err := a.newPassword()
	if err != nil {
		return err
	}
	if err := a.profiles.ChangePassword(ctx, password); err != nil {
		return err
	}
	printlnFn("Password changed.")
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
