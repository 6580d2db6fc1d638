package feed

import (
	"time"
)

// Source is one configured artist with its derived RSSHub feed URL.
type Source struct {
	Name     string
	ArtistID string
	URL      string
}

// Release is one normalized, notification-worthy item extracted from a feed entry.
// ID is the dedup key and must be stable across repeated fetches of the same content.
type Release struct {
	ID          string
	Title       string
	Author      string
	Link        string
	CoverURL    string // empty when the entry carries no recognizable cover image
	PublishedAt time.Time
}
