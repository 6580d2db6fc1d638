package pipeline

import (
	"context"

	"github.com/mmcdole/gofeed"

	"github.com/hexsix/ncm-notify/app/feed"
)

// Fetcher retrieves and parses one feed document with bounded retry.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// Extractor turns a parsed feed into release records plus a skipped count.
type Extractor interface {
	Run(parsed *gofeed.Feed) ([]feed.Release, int)
}

// Notifier delivers one release notification. An error means the release was
// not confirmed delivered and must stay un-committed.
type Notifier interface {
	SendRelease(rel feed.Release) error
}
