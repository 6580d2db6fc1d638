package telegram

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/hexsix/ncm-notify/app/feed"
)

// chat adapts the raw CHAT_ID string (numeric id or @channel name) to
// telebot's Recipient interface.
type chat string

func (c chat) Recipient() string { return string(c) }

// Client delivers release notifications to one Telegram chat. There is no
// retry at this layer: a failed send leaves the release un-committed and
// eligible for redelivery on a later pass.
type Client struct {
	bot  *tele.Bot
	chat chat
}

func NewClient(token, chatID string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if strings.TrimSpace(chatID) == "" {
		return nil, errors.New("telegram chat id is empty")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Client{bot: bot, chat: chat(chatID)}, nil
}

// SendRelease posts one release notification as a photo with caption. The
// text path is a fallback for releases that somehow arrive without a cover;
// extraction normally guarantees one.
func (c *Client) SendRelease(rel feed.Release) error {
	caption := Caption(rel)
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdownV2}

	if rel.CoverURL != "" {
		photo := &tele.Photo{
			File:    tele.FromURL(rel.CoverURL),
			Caption: caption,
		}
		if _, err := c.bot.Send(c.chat, photo, opts); err != nil {
			return fmt.Errorf("failed to send photo for release %s: %w", rel.ID, err)
		}
		slog.Debug("Sent photo notification", "release", rel.ID, "cover", rel.CoverURL)
		return nil
	}

	if _, err := c.bot.Send(c.chat, caption, opts); err != nil {
		return fmt.Errorf("failed to send message for release %s: %w", rel.ID, err)
	}
	slog.Debug("Sent text notification", "release", rel.ID)
	return nil
}
