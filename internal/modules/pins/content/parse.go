package content

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

const maxSummaryRunes = 1000

var strippedSelectors = "script, style, nav, header, footer, noscript"

// Parse extracts metadata from an HTML body. It never fails: anything it cannot read is left nil.
func Parse(rawURL string, body []byte) *types.ContentAnalysis {
	out := &types.ContentAnalysis{URL: rawURL, Keywords: []string{}}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return out
	}

	out.Title = textOrNil(doc.Find("title").First().Text())
	out.Description = metaContent(doc, "meta[name='description'], meta[name='Description']")
	out.OGTitle = metaContent(doc, "meta[property='og:title']")
	out.OGDescription = metaContent(doc, "meta[property='og:description']")
	out.OGImage = metaContent(doc, "meta[property='og:image']")
	if kw := metaContent(doc, "meta[name='keywords']"); kw != nil {
		out.Keywords = splitKeywords(*kw)
	}

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find(strippedSelectors).Remove()
	out.ContentSummary = truncateRunes(collapseWhitespace(sel.Text()), maxSummaryRunes)
	return out
}

func metaContent(doc *goquery.Document, selector string) *string {
	v, ok := doc.Find(selector).First().Attr("content")
	if !ok {
		return nil
	}
	return textOrNil(v)
}

func textOrNil(s string) *string {
	s = collapseWhitespace(s)
	if s == "" {
		return nil
	}
	return &s
}

func splitKeywords(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := collapseWhitespace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
