package feed

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Release id: first run of 4-15 consecutive digits in the entry link.
// NCM album links look like https://music.163.com/#/album?id=123456789.
var releaseIDExpr = regexp.MustCompile(`\d{4,15}`)

// Cover image: NCM-hosted URL embedded in the entry description HTML.
var coverURLExpr = regexp.MustCompile(`https://p1\.music\.126\.net/[^"\s]*`)

// Extractor turns a parsed feed into normalized release records. Malformed
// entries are skipped and counted, never propagated as errors.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts one Release per well-formed entry and returns the accepted
// records plus the number of skipped entries.
func (e *Extractor) Run(feed *gofeed.Feed) ([]Release, int) {
	if feed == nil || len(feed.Items) == 0 {
		return nil, 0
	}

	releases := make([]Release, 0, len(feed.Items))
	skipped := 0

	for _, item := range feed.Items {
		release, ok := extractRelease(item)
		if !ok {
			skipped++
			continue
		}
		releases = append(releases, release)
	}

	slog.Debug("Extraction finished",
		"total", len(feed.Items),
		"accepted", len(releases),
		"skipped", skipped)

	return releases, skipped
}

// extractRelease validates the required fields of a single entry. Title,
// author, published timestamp, link, a parsable release id and a cover URL
// are all required.
func extractRelease(item *gofeed.Item) (Release, bool) {
	if item == nil {
		return Release{}, false
	}

	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	author := authorName(item)

	if title == "" || link == "" || author == "" || item.PublishedParsed == nil {
		return Release{}, false
	}

	id := extractReleaseID(link)
	if id == "" {
		return Release{}, false
	}

	cover := extractCoverURL(item.Description)
	if cover == "" {
		return Release{}, false
	}

	return Release{
		ID:          id,
		Title:       title,
		Author:      author,
		Link:        link,
		CoverURL:    cover,
		PublishedAt: *item.PublishedParsed,
	}, true
}

// extractReleaseID pulls the dedup key out of the entry link. Returns ""
// when the link carries no 4-15 digit run.
func extractReleaseID(link string) string {
	return releaseIDExpr.FindString(link)
}

// extractCoverURL pulls an embedded NCM image URL out of the description
// HTML. Returns "" when no cover is present.
func extractCoverURL(description string) string {
	return coverURLExpr.FindString(description)
}

func authorName(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if name := strings.TrimSpace(item.Authors[0].Name); name != "" {
			return name
		}
	}
	if item.Author != nil {
		return strings.TrimSpace(item.Author.Name)
	}
	return ""
}
