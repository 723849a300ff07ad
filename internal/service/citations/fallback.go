package citations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/haeun/fitcoach-go/internal/service/ai"
	"go.uber.org/zap"
)

const fallbackSystemPrompt = "You are a medical research assistant. For every request you run live web searches to surface peer-reviewed exercise or longevity research. " +
	"Return only sources from reputable journals, conferences, or government/WHO guidelines. Include direct URLs (PubMed, DOI, or journal pages). " +
	"Do not fabricate citations. Always include a DOI when available, otherwise use \"N/A\". Provide a one-sentence summary per source."

// AISearcher finds citations through a web-search-enabled model call when
// the literature indexes come back sparse. Errors degrade to an empty list.
type AISearcher struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewAISearcher(gen ai.Generator, logger *zap.Logger) *AISearcher {
	return &AISearcher{gen: gen, logger: logger}
}

type aiCitation struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	Source  string   `json:"source"`
	URL     string   `json:"url"`
	DOI     string   `json:"doi"`
	Summary string   `json:"summary"`
}

type aiCitationResults struct {
	Citations []aiCitation `json:"citations"`
}

func citationResultsSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"required":             []string{"citations"},
		"additionalProperties": false,
		"properties": map[string]any{
			"citations": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 6,
				"items": map[string]any{
					"type":                 "object",
					"required":             []string{"title", "authors", "year", "source", "url", "doi", "summary"},
					"additionalProperties": false,
					"properties": map[string]any{
						"title":   map[string]any{"type": "string"},
						"authors": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
						"year":    map[string]any{"type": "number"},
						"source":  map[string]any{"type": "string"},
						"url":     map[string]any{"type": "string"},
						"doi":     map[string]any{"type": "string"},
						"summary": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

func (s *AISearcher) Search(ctx context.Context, profile *domain.Profile) []domain.Citation {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		s.logger.Warn("AI citation search profile marshal failed", zap.Error(err))
		return nil
	}

	prompt := strings.Join([]string{
		"Find 3-6 recent sources (<=10 years old when possible) that inform training, recovery, or longevity guidance for this profile.",
		"Profile:",
		string(profileJSON),
		"For each source return: title, authors array, publication year, source (journal/conference), direct URL, doi (or \"N/A\"), and a 1-2 sentence summary.",
	}, " ")

	var parsed aiCitationResults
	err = s.gen.GenerateStructured(ctx, ai.StructuredRequest{
		SchemaName: "citation_results",
		Schema:     citationResultsSchema(),
		System:     fallbackSystemPrompt,
		User:       prompt,
		WebSearch:  true,
	}, &parsed)
	if err != nil {
		s.logger.Warn("AI citation search failed", zap.Error(err))
		return nil
	}

	out := make([]domain.Citation, 0, len(parsed.Citations))
	for index, raw := range parsed.Citations {
		doi := normalizePlaceholder(raw.DOI)
		summary := normalizePlaceholder(raw.Summary)

		if raw.Title == "" || len(raw.Authors) == 0 || raw.Year == 0 || raw.URL == "" {
			continue
		}

		id := doi
		if id == "" {
			id = raw.URL
		}
		if id == "" {
			id = fmt.Sprintf("%d", index)
		}

		out = append(out, domain.Citation{
			ID:      "openai:" + id,
			Title:   raw.Title,
			Authors: raw.Authors,
			Year:    raw.Year,
			Source:  raw.Source,
			URL:     raw.URL,
			DOI:     doi,
			Summary: summary,
		})
	}

	return out
}

// normalizePlaceholder maps the placeholder strings models emit for
// missing optional fields ("N/A", "none", ...) to absent.
func normalizePlaceholder(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	switch strings.ToLower(trimmed) {
	case "n/a", "na", "none", "null", "not available":
		return ""
	}
	return trimmed
}
