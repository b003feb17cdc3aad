package translate

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	ugcPolicy   = bluemonday.UGCPolicy()

	whitespaceRun = regexp.MustCompile(`[ \t]+`)
)

// StripMarkup reduces a rich-text answer to plain text suitable for the
// translation provider: tags removed, entities decoded, horizontal
// whitespace collapsed.
func StripMarkup(richText string) string {
	text := stripPolicy.Sanitize(richText)
	text = html.UnescapeString(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SanitizeRichText cleans user-supplied rich-text for storage, keeping the
// usual formatting tags but nothing executable.
func SanitizeRichText(richText string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(richText))
}
