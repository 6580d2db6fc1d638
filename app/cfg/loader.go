package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Telegram configuration
	TelegramToken string `long:"tg-token" env:"TG_TOKEN" description:"Telegram bot token (required)" required:"true"`
	ChatID        string `long:"chat-id" env:"CHAT_ID" description:"Telegram chat the notifications are sent to (required)" required:"true"`

	// Dedup store configuration
	RedisURL string `long:"redis-url" env:"REDIS_URL" default:"redis://localhost:6379/0" description:"Redis connection URL for the dedup store"`
	DedupTTL int    `long:"dedup-ttl" env:"DEDUP_TTL" default:"64281600" description:"Dedup marker TTL in seconds (default ~2 years)"`

	// Artist sources
	Configs     string `long:"configs" env:"CONFIGS" description:"JSON object mapping artist name to NCM artist id"`
	ArtistsFile string `long:"artists-file" env:"ARTISTS_FILE" description:"YAML file mapping artist name to NCM artist id"`
	RSSHubURL   string `long:"rsshub-url" env:"RSSHUB_URL" default:"https://rsshub.app" description:"RSSHub instance base URL"`

	// Delivery journal
	DBPath string `long:"db-path" env:"DB_PATH" default:"./ncm-notify.db" description:"SQLite delivery journal path (empty disables the journal)"`

	// Pipeline tuning
	FetchTimeout  int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-attempt feed fetch timeout in seconds"`
	RetryInterval int `long:"retry-interval" env:"RETRY_INTERVAL" default:"6" description:"Pause between retry attempts in seconds"`
	SendInterval  int `long:"send-interval" env:"SEND_INTERVAL" default:"10" description:"Pause between Telegram sends in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ncm-notify/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Shanghai)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	artists, err := loadArtists(raw.Configs, raw.ArtistsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load artist configuration: %w", err)
	}
	if len(artists) == 0 {
		return nil, fmt.Errorf("no artists configured: set CONFIGS or ARTISTS_FILE")
	}

	cfg := &Cfg{
		TelegramToken: raw.TelegramToken,
		ChatID:        raw.ChatID,
		RedisURL:      raw.RedisURL,
		DedupTTL:      time.Duration(raw.DedupTTL) * time.Second,
		Artists:       artists,
		RSSHubURL:     raw.RSSHubURL,
		DBPath:        raw.DBPath,
		FetchTimeout:  time.Duration(raw.FetchTimeout) * time.Second,
		RetryInterval: time.Duration(raw.RetryInterval) * time.Second,
		SendInterval:  time.Duration(raw.SendInterval) * time.Second,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
