package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hexsix/ncm-notify/app/cfg"
	"github.com/hexsix/ncm-notify/app/database"
	"github.com/hexsix/ncm-notify/app/dedup"
	"github.com/hexsix/ncm-notify/app/feed"
	"github.com/hexsix/ncm-notify/app/pipeline"
	"github.com/hexsix/ncm-notify/app/telegram"
)

// ncm-notify runs one pass over all configured artists and exits. Scheduling
// is an external concern (cron or similar); overlapping runs against the same
// dedup store are not supported.
func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appConfig.Debug)

	slog.Info("Starting ncm-notify",
		"version", appConfig.Version,
		"artists", len(appConfig.Artists),
		"rsshub", appConfig.RSSHubURL)

	// The pass stops between records on SIGINT/SIGTERM; already-delivered
	// releases stay committed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := dedup.NewRedisStore(ctx, appConfig.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to dedup store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Connected to dedup store")

	var journal database.DeliveryRepository
	if appConfig.DBPath != "" {
		db, err := database.NewConnection(appConfig.DBPath)
		if err != nil {
			slog.Error("Failed to open delivery journal", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to migrate delivery journal", "error", err)
			os.Exit(1)
		}
		slog.Info("Delivery journal ready", "path", appConfig.DBPath, "schema_version", version, "dirty", dirty)

		repo := database.NewDeliveryRepo(db)
		if count, err := repo.GetDeliveryCount(); err == nil {
			slog.Info("Journal size", "deliveries", count)
		}
		if recent, err := repo.GetRecentDeliveries(1); err == nil && len(recent) > 0 {
			slog.Info("Last delivery",
				"release", recent[0].ReleaseID,
				"title", recent[0].Title,
				"delivered_at", recent[0].DeliveredAt)
		}
		journal = repo
	}

	notifier, err := telegram.NewClient(appConfig.TelegramToken, appConfig.ChatID)
	if err != nil {
		slog.Error("Failed to create Telegram client", "error", err)
		os.Exit(1)
	}

	fetcher := feed.NewFetcher(&http.Client{}, appConfig.UserAgent,
		appConfig.FetchTimeout, appConfig.RetryInterval)

	p := pipeline.New(fetcher, feed.NewExtractor(), store, notifier, journal, pipeline.Options{
		DedupTTL:      appConfig.DedupTTL,
		SendInterval:  appConfig.SendInterval,
		RetryInterval: appConfig.RetryInterval,
	})

	sources := feed.Sources(appConfig.Artists, appConfig.RSSHubURL)
	summary := p.Run(ctx, sources)

	// Per-source and per-record failures are logged, not surfaced as a
	// nonzero exit: the next scheduled pass picks up whatever was missed.
	slog.Info("ncm-notify finished",
		"delivered", summary.Delivered,
		"failed", summary.Failed,
		"sources_failed", summary.SourcesFailed)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
