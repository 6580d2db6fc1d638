package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/hexsix/ncm-notify/app/feed"
)

const reserved = "_*[]()~`>#+-=|{}.!"

func TestEscapeMarkdownV2_EscapesEveryReservedCharacter(t *testing.T) {
	escaped := EscapeMarkdownV2(reserved)

	for _, ch := range reserved {
		want := `\` + string(ch)
		if !strings.Contains(escaped, want) {
			t.Errorf("Expected escaped output to contain %q", want)
		}
	}

	// No unescaped occurrence may remain
	for i, ch := range escaped {
		if strings.ContainsRune(reserved, ch) {
			if i == 0 || escaped[i-1] != '\\' {
				t.Errorf("Unescaped reserved character %q at position %d in %q", ch, i, escaped)
			}
		}
	}
}

func TestEscapeMarkdownV2_RoundTrip(t *testing.T) {
	tests := []string{
		"plain text",
		"half-life 2: episode (one)",
		"a.b.c!d#e",
		"_*[]()~`>#+-=|{}.!",
		"nested [brackets (and) parens]",
		"",
	}

	for _, original := range tests {
		escaped := EscapeMarkdownV2(original)

		// Un-escape: drop one backslash before each reserved character
		var b strings.Builder
		for i := 0; i < len(escaped); i++ {
			if escaped[i] == '\\' && i+1 < len(escaped) && strings.ContainsRune(reserved, rune(escaped[i+1])) {
				continue
			}
			b.WriteByte(escaped[i])
		}

		if b.String() != original {
			t.Errorf("Round trip failed: %q -> %q -> %q", original, escaped, b.String())
		}
	}
}

func TestEscapeMarkdownV2_LeavesPlainTextAlone(t *testing.T) {
	if got := EscapeMarkdownV2("plain text 123"); got != "plain text 123" {
		t.Errorf("Expected plain text unchanged, got %q", got)
	}
}

func TestCaption_Template(t *testing.T) {
	rel := feed.Release{
		ID:          "123456789",
		Title:       "New Album",
		Link:        "https://music.163.com/#/album?id=123456789",
		PublishedAt: time.Now(),
	}

	caption := Caption(rel)

	if !strings.HasPrefix(caption, "#123456789\n") {
		t.Errorf("Expected caption to start with '#<id>', got %q", caption)
	}
	if !strings.Contains(caption, "New Album\n\n") {
		t.Errorf("Expected title followed by blank line, got %q", caption)
	}
	if !strings.Contains(caption, `https://music\.163\.com/\#/album?id\=123456789`) {
		t.Errorf("Expected escaped link in caption, got %q", caption)
	}
}

func TestCaption_EscapesFieldsNotTemplate(t *testing.T) {
	rel := feed.Release{
		ID:    "12345",
		Title: "Album! (Deluxe)",
		Link:  "https://example.org/12345",
	}

	caption := Caption(rel)

	// Template '#' prefix stays literal
	if !strings.HasPrefix(caption, "#12345") {
		t.Errorf("Expected literal template '#', got %q", caption)
	}
	// Field punctuation is escaped
	if !strings.Contains(caption, `Album\! \(Deluxe\)`) {
		t.Errorf("Expected escaped title, got %q", caption)
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", "12345"); err == nil {
		t.Error("Expected error for empty token")
	}
	if _, err := NewClient("123:abc", ""); err == nil {
		t.Error("Expected error for empty chat id")
	}
}

func TestChatRecipient(t *testing.T) {
	if chat("-1000123").Recipient() != "-1000123" {
		t.Error("Expected recipient to pass the chat id through")
	}
	if chat("@releases").Recipient() != "@releases" {
		t.Error("Expected recipient to support @channel names")
	}
}
