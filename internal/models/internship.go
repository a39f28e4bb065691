package models

import "time"

type Internship struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PostedDate  string `json:"postedDate"`
	Source      string `json:"source"`
}

// SearchCriteria is what the user typed into the search view.
type SearchCriteria struct {
	Keyword  string `json:"searchInput"`
	Location string `json:"locationInput"`
	Date     string `json:"dateSearchInput"`
}

// SearchCacheEntry is the last search of a client instance, tagged with the
// user it belongs to.
type SearchCacheEntry struct {
	SearchInput     string       `json:"searchInput"`
	LocationInput   string       `json:"locationInput"`
	DateSearchInput string       `json:"dateSearchInput"`
	Results         []Internship `json:"internships"`
	CurrentPage     int          `json:"currentPage"`
	Timestamp       time.Time    `json:"timestamp"`
	OwnerUserID     string       `json:"sessionUserId"`
}
