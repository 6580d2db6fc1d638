package cfg

import "time"

type Cfg struct {
	// Telegram configuration
	TelegramToken string
	ChatID        string

	// Dedup store configuration
	RedisURL string
	DedupTTL time.Duration

	// Artist sources
	Artists   map[string]string // artist name -> NCM artist id
	RSSHubURL string

	// Delivery journal
	DBPath string

	// Pipeline tuning
	FetchTimeout  time.Duration
	RetryInterval time.Duration
	SendInterval  time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
