package telegram

import (
	"fmt"
	"strings"

	"github.com/hexsix/ncm-notify/app/feed"
)

// Telegram MarkdownV2 reserved characters. Each occurrence in a free-text
// field is prefixed with a backslash before the field is interpolated into
// the caption template, so literal template punctuation stays intact.
var markdownV2Replacer = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`~`, `\~`,
	"`", "\\`",
	`>`, `\>`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`=`, `\=`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`.`, `\.`,
	`!`, `\!`,
)

// EscapeMarkdownV2 neutralizes MarkdownV2-significant characters in a free-text
// value. The transform is reversible: stripping one backslash before each
// reserved character recovers the original text.
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// Caption renders the notification body for one release:
//
//	#<id>
//	<title>
//
//	<link>
//
// Field values are escaped before interpolation; the leading '#' is template
// punctuation and stays unescaped.
func Caption(rel feed.Release) string {
	return fmt.Sprintf("#%s\n%s\n\n%s",
		EscapeMarkdownV2(rel.ID),
		EscapeMarkdownV2(rel.Title),
		EscapeMarkdownV2(rel.Link))
}
