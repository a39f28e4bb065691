package models

import (
	"strings"
	"time"
)

// MaxSubscriptions caps the keyword alerts a single user may hold.
const MaxSubscriptions = 10

type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeKeyword trims and lower-cases a keyword.
func NormalizeKeyword(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
