package models

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusSaved      Status = "Saved"
	StatusApplied    Status = "Applied"
	StatusAssessment Status = "Assessment"
	StatusInterview  Status = "Interview"
	StatusOffer      Status = "Offer"
	StatusRejected   Status = "Rejected"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{
	StatusSaved,
	StatusApplied,
	StatusAssessment,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, v := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Application is a tracked internship application owned by UserID.
type Application struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	InternshipID string    `json:"internship_id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     *string   `json:"location"`
	Description  *string   `json:"description"`
	URL          *string   `json:"url"`
	Status       Status    `json:"status"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ManualApplication carries the user-entered fields of an application that
// did not come from a search result.
type ManualApplication struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Status      Status
	Notes       string
}

// ManualInternshipPrefix marks internship ids generated for manual entries.
const ManualInternshipPrefix = "custom-"
