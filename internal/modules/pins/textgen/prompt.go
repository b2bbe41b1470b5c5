package textgen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

type selected struct {
	Title       string
	Description string
	Body        string
	Keywords    []string
}

// selectSource prefers OpenGraph tags, then basic meta tags, then the page summary.
func selectSource(src Source) selected {
	if text := strings.TrimSpace(src.CustomText); text != "" {
		return selected{Title: firstSentence(text), Body: text}
	}
	a := src.Analysis
	if a == nil {
		return selected{}
	}
	out := selected{Body: a.ContentSummary, Keywords: a.Keywords}
	out.Title = firstNonEmpty(a.OGTitle, a.Title)
	if out.Title == "" {
		out.Title = firstSentence(a.ContentSummary)
	}
	out.Description = firstNonEmpty(a.OGDescription, a.Description)
	if out.Description == "" {
		out.Description = truncate(a.ContentSummary, 300)
	}
	return out
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return ""
}

func firstSentence(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if i := strings.IndexAny(s, ".!?\n"); i > 0 {
		s = s[:i]
	}
	return truncate(s, 80)
}

func systemPrompt(specialized string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You write Pinterest pin copy. Return exactly %d distinct variations as JSON.\n", types.VariationCount)
	fmt.Fprintf(&b, "Each title must be at most %d characters and each description at most %d characters.\n", types.MaxTitleRunes, types.MaxDescriptionRunes)
	b.WriteString("Titles should be scroll-stopping and keyword-rich. Descriptions should expand on the title and end with a clear call to action.\n")
	b.WriteString("Each variation must take a different angle; never repeat a title.")
	if s := strings.TrimSpace(specialized); s != "" {
		b.WriteString("\n\nNiche instructions (these take priority over the general guidance above):\n")
		b.WriteString(s)
	}
	return b.String()
}

func userPrompt(sel selected) string {
	var b strings.Builder
	if sel.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", sel.Title)
	}
	if sel.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", sel.Description)
	}
	if len(sel.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(sel.Keywords, ", "))
	}
	if body := strings.TrimSpace(sel.Body); body != "" && body != sel.Description {
		if utf8.RuneCountInString(body) > 1000 {
			body = truncate(body, 1000)
		}
		fmt.Fprintf(&b, "Content:\n%s\n", body)
	}
	if b.Len() == 0 {
		b.WriteString("No source details were available. Write general inspirational pins.")
	}
	return b.String()
}
