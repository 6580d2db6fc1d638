package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mmcdole/gofeed"
)

const fetchAttempts = 3

// Fetcher retrieves and parses one feed document with bounded retry.
// An attempt fails on transport error, non-200 status, or parse failure;
// parse success gates retry, not entry count.
type Fetcher struct {
	httpClient    *http.Client
	gofeedParser  *gofeed.Parser
	userAgent     string
	fetchTimeout  time.Duration
	retryInterval time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, fetchTimeout, retryInterval time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Fetcher{
		httpClient:    httpClient,
		gofeedParser:  gofeed.NewParser(),
		userAgent:     userAgent,
		fetchTimeout:  fetchTimeout,
		retryInterval: retryInterval,
	}
}

// Fetch downloads and parses the feed at url, retrying up to 3 times with a
// constant pause between attempts. The returned error means all attempts failed
// and the caller should skip this source for the current pass.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	var parsed *gofeed.Feed
	attempt := 0

	operation := func() error {
		attempt++
		slog.Debug("Fetching feed", "url", url, "attempt", attempt, "max_attempts", fetchAttempts)

		feed, err := f.fetchOnce(ctx, url)
		if err != nil {
			slog.Debug("Fetch attempt failed", "url", url, "attempt", attempt, "error", err)
			return err
		}

		parsed = feed
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryInterval), fetchAttempts-1),
		ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("failed to fetch feed after %d attempts: %w", attempt, err)
	}

	return parsed, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*gofeed.Feed, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	feed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return feed, nil
}
