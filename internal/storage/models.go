package storage

import (
	"time"
)

type Source struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	LastFetched  time.Time `json:"last_fetched"`
	AddedAt      time.Time `json:"added_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Article struct {
	ID          int64     `json:"id"`
	SourceID    int64     `json:"source_id"`
	GUID        string    `json:"guid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Published   time.Time `json:"published"`
	Updated     time.Time `json:"updated"`
	Read        bool      `json:"read"`
	Starred     bool      `json:"starred"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
}

type SortField int

const (
	SortByPublished SortField = iota
	SortByTitle
)

type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)

// PageQuery selects one page of articles. SourceID zero means all sources.
type PageQuery struct {
	SourceID int64
	Limit    int
	Offset   int
	SortBy   SortField
	Order    SortOrder
}
