package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

// LLM is the single structured-output call this stage makes.
type LLM interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

// Source is what the variations are written from: either an analysis or free text.
type Source struct {
	Analysis   *types.ContentAnalysis
	CustomText string
}

type Generator struct {
	log     *logger.Logger
	llm     LLM
	timeout time.Duration
}

func NewGenerator(baseLog *logger.Logger, llm LLM, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Generator{
		log:     baseLog.With("module", "TextVariationGenerator"),
		llm:     llm,
		timeout: timeout,
	}
}

const schemaName = "pin_variations"

var variationSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"variations"},
	"properties": map[string]any{
		"variations": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"title", "description"},
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
			},
		},
	},
}

// Generate always returns exactly VariationCount variations within the length limits. Provider
// failures and malformed output fall back to templated text.
func (g *Generator) Generate(ctx context.Context, src Source, specializedPrompt string) []types.TextVariation {
	sel := selectSource(src)
	var (
		out    []types.TextVariation
		issues []observability.Issue
	)
	if g.llm != nil {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		obj, err := g.llm.GenerateJSON(callCtx, systemPrompt(specializedPrompt), userPrompt(sel), schemaName, variationSchema)
		cancel()
		if err != nil {
			g.log.Warn("variation generation failed, using fallback", "error", err)
		} else if parsed, ok := parseVariations(obj); ok {
			out = parsed
		} else {
			g.log.Warn("variation response malformed, using fallback")
		}
	}
	if out == nil {
		out = Fallback(sel)
		issues = append(issues, observability.Issue{Kind: observability.IssueFallbackText, Detail: "templated variations used"})
	}

	for i := range out {
		issues = append(issues, enforceLimits(&out[i], i)...)
	}
	if dup := duplicateTitles(out); dup != "" {
		issues = append(issues, observability.Issue{Kind: observability.IssueDuplicateText, Detail: dup})
	}
	observability.ReportDataQuality(ctx, g.log, "text_variations", issues, nil)
	return out
}

func parseVariations(obj map[string]any) ([]types.TextVariation, bool) {
	raw, ok := obj["variations"].([]any)
	if !ok || len(raw) != types.VariationCount {
		return nil, false
	}
	out := make([]types.TextVariation, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		title, _ := m["title"].(string)
		desc, _ := m["description"].(string)
		title = strings.TrimSpace(title)
		desc = strings.TrimSpace(desc)
		if title == "" || desc == "" {
			return nil, false
		}
		out = append(out, types.TextVariation{Title: title, Description: desc})
	}
	return out, true
}

func enforceLimits(v *types.TextVariation, i int) []observability.Issue {
	var issues []observability.Issue
	if utf8.RuneCountInString(v.Title) > types.MaxTitleRunes {
		v.Title = truncate(v.Title, types.MaxTitleRunes)
		issues = append(issues, observability.Issue{Kind: observability.IssueTruncatedText, Detail: fmt.Sprintf("title %d truncated", i)})
	}
	if utf8.RuneCountInString(v.Description) > types.MaxDescriptionRunes {
		v.Description = truncate(v.Description, types.MaxDescriptionRunes)
		issues = append(issues, observability.Issue{Kind: observability.IssueTruncatedText, Detail: fmt.Sprintf("description %d truncated", i)})
	}
	return issues
}

func duplicateTitles(vs []types.TextVariation) string {
	seen := map[string]int{}
	for i, v := range vs {
		key := strings.ToLower(strings.Join(strings.Fields(v.Title), " "))
		if j, ok := seen[key]; ok {
			return fmt.Sprintf("titles %d and %d are identical", j, i)
		}
		seen[key] = i
	}
	return ""
}

// truncate cuts s to at most n runes, preferring a word boundary in the last fifth.
func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	cut := r[:n]
	for i := len(cut) - 1; i >= n*4/5; i-- {
		if cut[i] == ' ' {
			return strings.TrimSpace(string(cut[:i]))
		}
	}
	return string(cut)
}
