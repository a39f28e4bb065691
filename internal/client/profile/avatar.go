package profile

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/common"
)

const MaxAvatarSize = 5 << 20

var avatarTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AvatarFile is an image picked by the user.
type AvatarFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Validate checks type and size before anything is uploaded.
func (f AvatarFile) Validate() error {
	if _, ok := avatarTypes[strings.ToLower(f.ContentType)]; !ok {
		return common.NewValidationError("avatar", "File must be a JPEG, PNG, GIF, or WebP image")
	}
	if f.Size > MaxAvatarSize {
		return common.NewValidationError("avatar", "File size must be less than 5MB")
	}
	return nil
}

func (f AvatarFile) ext() string {
	if e := strings.TrimPrefix(path.Ext(f.Name), "."); e != "" {
		return strings.ToLower(e)
	}
	return avatarTypes[strings.ToLower(f.ContentType)]
}

// avatarKey is avatars/<user>-<unix millis>-<random>.<ext>.
func avatarKey(userID string, f AvatarFile, now time.Time, suffix string) string {
	return fmt.Sprintf("avatars/%s-%d-%s.%s", userID, now.UnixMilli(), suffix, f.ext())
}
