package models

import (
	"strings"
	"time"
)

const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// Entry is one catalog item owned by a user. Apart from Title, Type and
// Director every descriptive field is free text and may be empty.
type Entry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Director  string    `json:"director"`
	Budget    string    `json:"budget"`
	Location  string    `json:"location"`
	Duration  string    `json:"duration"`
	YearTime  string    `json:"yearTime"`
	PosterURL string    `json:"posterUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"userId"`
}

// EntryInput carries the caller-editable fields of an Entry.
type EntryInput struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	Director  string `json:"director"`
	Budget    string `json:"budget"`
	Location  string `json:"location"`
	Duration  string `json:"duration"`
	YearTime  string `json:"yearTime"`
	PosterURL string `json:"posterUrl"`
}

// CanonicalType maps a case-insensitive type name to its stored form.
func CanonicalType(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return TypeMovie, true
	case "tv show":
		return TypeTVShow, true
	}
	return "", false
}

// EntryPage is one slice of a user's catalog.
type EntryPage struct {
	Entries      []Entry `json:"entries"`
	CurrentPage  int     `json:"currentPage"`
	TotalPages   int     `json:"totalPages"`
	TotalEntries int     `json:"totalEntries"`
	HasMore      bool    `json:"hasMore"`
}

// ListQuery selects a page of entries.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// PosterUpload is a presigned slot for uploading a poster image.
type PosterUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	PosterURL string    `json:"posterUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
