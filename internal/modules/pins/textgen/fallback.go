package textgen

import (
	"strings"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

const (
	fallbackTitle       = "Ideas Worth Saving"
	fallbackDescription = "Fresh inspiration you will want to come back to."
)

var (
	titlePrefixes = [types.VariationCount]string{"", "Must-Read: ", "The Ultimate Guide: "}
	ctaSuffixes   = [types.VariationCount]string{
		" Click to learn more!",
		" Save this pin for later!",
		" Tap to read the full guide!",
	}
)

// Fallback derives variations from the source without any provider call.
func Fallback(sel selected) []types.TextVariation {
	title := strings.TrimSpace(sel.Title)
	if title == "" {
		title = fallbackTitle
	}
	desc := strings.TrimSpace(sel.Description)
	if desc == "" {
		desc = strings.TrimSpace(sel.Body)
	}
	if desc == "" {
		desc = fallbackDescription
	}
	out := make([]types.TextVariation, types.VariationCount)
	for i := range out {
		suffix := ctaSuffixes[i]
		out[i] = types.TextVariation{
			Title:       truncate(titlePrefixes[i]+title, types.MaxTitleRunes),
			Description: truncate(desc, types.MaxDescriptionRunes-len([]rune(suffix))) + suffix,
		}
	}
	return out
}
