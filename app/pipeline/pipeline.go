package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hexsix/ncm-notify/app/database"
	"github.com/hexsix/ncm-notify/app/dedup"
	"github.com/hexsix/ncm-notify/app/feed"
)

const (
	commitAttempts = 5
	sentMarker     = "sent"
)

// Options carries the pipeline's tuning knobs.
type Options struct {
	DedupTTL      time.Duration
	SendInterval  time.Duration
	RetryInterval time.Duration
}

// Pipeline drives one pass over all configured sources:
// fetch -> extract -> partition -> deliver -> commit. All failures are
// isolated to the smallest unit they affect; a pass always runs to the end.
type Pipeline struct {
	fetcher   Fetcher
	extractor Extractor
	store     dedup.Store
	notifier  Notifier
	journal   database.DeliveryRepository // optional, nil disables journaling
	opts      Options
}

// Summary aggregates the counts of one full pass.
type Summary struct {
	Sources       int
	SourcesFailed int
	Entries       int
	Extracted     int
	Skipped       int
	AlreadySent   int
	Delivered     int
	Failed        int
}

func New(fetcher Fetcher, extractor Extractor, store dedup.Store, notifier Notifier,
	journal database.DeliveryRepository, opts Options) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		notifier:  notifier,
		journal:   journal,
		opts:      opts,
	}
}

// Run executes one pass over sources. It only returns early when ctx is
// cancelled; individual source and record failures are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, sources []feed.Source) Summary {
	var summary Summary

	for _, source := range sources {
		if ctx.Err() != nil {
			slog.Info("Pass interrupted", "source", source.Name)
			break
		}

		summary.Sources++
		if !p.processSource(ctx, source, &summary) {
			summary.SourcesFailed++
		}
	}

	slog.Info("Pass completed",
		"sources", summary.Sources,
		"sources_failed", summary.SourcesFailed,
		"entries", summary.Entries,
		"extracted", summary.Extracted,
		"skipped", summary.Skipped,
		"already_sent", summary.AlreadySent,
		"delivered", summary.Delivered,
		"failed", summary.Failed)

	return summary
}

func (p *Pipeline) processSource(ctx context.Context, source feed.Source, summary *Summary) bool {
	slog.Info("Processing source", "artist", source.Name, "url", source.URL)

	parsed, err := p.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		slog.Error("Failed to fetch source, skipping", "artist", source.Name, "error", err)
		return false
	}

	releases, skipped := p.extractor.Run(parsed)
	summary.Entries += len(releases) + skipped
	summary.Extracted += len(releases)
	summary.Skipped += skipped

	fresh := p.partition(ctx, releases, summary)
	slog.Info("Source extracted",
		"artist", source.Name,
		"total", len(releases)+skipped,
		"accepted", len(releases),
		"new", len(fresh))

	for _, rel := range fresh {
		if ctx.Err() != nil {
			return true
		}

		if err := p.deliver(source, rel); err != nil {
			slog.Error("Failed to deliver release",
				"artist", source.Name, "release", rel.ID, "title", rel.Title, "error", err)
			summary.Failed++
			continue
		}
		summary.Delivered++

		p.commit(ctx, rel)
		p.record(source, rel)
		p.pause(ctx)
	}

	return true
}

// partition keeps only releases with no live dedup marker. A store read error
// drops the record for this pass: redelivering later is cheaper than risking
// a duplicate now.
func (p *Pipeline) partition(ctx context.Context, releases []feed.Release, summary *Summary) []feed.Release {
	fresh := make([]feed.Release, 0, len(releases))

	for _, rel := range releases {
		exists, err := p.store.Exists(ctx, rel.ID)
		if err != nil {
			slog.Error("Dedup check failed, skipping release for this pass",
				"release", rel.ID, "error", err)
			summary.Failed++
			continue
		}
		if exists {
			summary.AlreadySent++
			continue
		}
		fresh = append(fresh, rel)
	}

	return fresh
}

func (p *Pipeline) deliver(source feed.Source, rel feed.Release) error {
	slog.Info("Sending release",
		"artist", source.Name,
		"release", rel.ID,
		"title", rel.Title,
		"has_cover", rel.CoverURL != "")

	return p.notifier.SendRelease(rel)
}

// commit writes the dedup marker for the just-delivered release, retrying up
// to 5 times. Exhausting retries is a duplicate risk, not a pass failure: the
// release was already delivered and may be notified again on a later pass.
func (p *Pipeline) commit(ctx context.Context, rel feed.Release) {
	attempt := 0

	operation := func() error {
		attempt++
		slog.Debug("Committing dedup marker", "release", rel.ID, "attempt", attempt, "max_attempts", commitAttempts)
		return p.store.SetWithTTL(ctx, rel.ID, sentMarker, p.opts.DedupTTL)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.opts.RetryInterval), commitAttempts-1),
		ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		slog.Warn("Failed to commit dedup marker, release may be sent twice",
			"release", rel.ID, "attempts", attempt, "error", err)
	}
}

// record appends the delivery to the journal. Journal failures are logged and
// ignored: the dedup store stays the single authority for suppression.
func (p *Pipeline) record(source feed.Source, rel feed.Release) {
	if p.journal == nil {
		return
	}

	err := p.journal.RecordDelivery(database.Delivery{
		ReleaseID:   rel.ID,
		Artist:      source.Name,
		Title:       rel.Title,
		Link:        rel.Link,
		DeliveredAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Failed to journal delivery", "release", rel.ID, "error", err)
	}
}

// pause enforces the inter-message rate limit after a successful send.
func (p *Pipeline) pause(ctx context.Context) {
	if p.opts.SendInterval <= 0 {
		return
	}

	timer := time.NewTimer(p.opts.SendInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
