package citations

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/haeun/fitcoach-go/internal/service/ai"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	// minDirectResults is the threshold below which the AI fallback search
	// is consulted.
	minDirectResults = 5
	// maxCitations caps the merged result set handed to downstream stages.
	maxCitations = 12
)

const distillSystemPrompt = "You are a longevity-focused medical exercise scientist. " +
	"You explain actionable facts and cite peer-reviewed literature. " +
	"Keep each fact under 280 characters and avoid medical advice wording."

// LiteratureSource is a free-text search against one citation index.
// Implementations absorb their own failures and return an empty list.
type LiteratureSource interface {
	Search(ctx context.Context, query string) []domain.Citation
}

// FallbackSource finds citations from the profile directly, without a
// prebuilt query.
type FallbackSource interface {
	Search(ctx context.Context, profile *domain.Profile) []domain.Citation
}

// SearchCache memoizes citation search results per profile digest. Misses
// and errors both report !ok.
type SearchCache interface {
	GetCitations(ctx context.Context, key string) ([]domain.Citation, bool)
	SetCitations(ctx context.Context, key string, citations []domain.Citation)
}

// Service runs the citation half of the generation pipeline: concurrent
// index searches, dedup, AI fallback on sparse results, and fact
// distillation.
type Service struct {
	pubmed   LiteratureSource
	semantic LiteratureSource
	fallback FallbackSource
	gen      ai.Generator
	cache    SearchCache
	logger   *zap.Logger
}

func NewService(pubmed, semantic LiteratureSource, fallback FallbackSource, gen ai.Generator, cache SearchCache, logger *zap.Logger) *Service {
	return &Service{
		pubmed:   pubmed,
		semantic: semantic,
		fallback: fallback,
		gen:      gen,
		cache:    cache,
		logger:   logger,
	}
}

// Search returns up to maxCitations deduplicated citations for the profile.
// The two index fetchers run concurrently; the AI fallback only runs when
// they produce fewer than minDirectResults distinct works.
func (s *Service) Search(ctx context.Context, profile *domain.Profile) []domain.Citation {
	cacheKey := profileDigest(profile)
	if s.cache != nil {
		if cached, ok := s.cache.GetCitations(ctx, cacheKey); ok {
			s.logger.Debug("Citation cache hit", zap.String("key", cacheKey))
			return cached
		}
	}

	query := BuildSearchQuery(profile)

	var pubmedResults, semanticResults []domain.Citation
	var wg conc.WaitGroup
	wg.Go(func() {
		pubmedResults = s.pubmed.Search(ctx, query)
	})
	wg.Go(func() {
		semanticResults = s.semantic.Search(ctx, query)
	})
	wg.Wait()

	combined := Dedupe(append(pubmedResults, semanticResults...))

	if len(combined) < minDirectResults {
		s.logger.Info("Sparse index results, consulting AI fallback",
			zap.Int("direct_results", len(combined)),
		)
		aiResults := s.fallback.Search(ctx, profile)
		if len(aiResults) > 0 {
			combined = Dedupe(append(combined, aiResults...))
		}
	}

	if len(combined) > maxCitations {
		combined = combined[:maxCitations]
	}

	s.logger.Info("Citation search complete",
		zap.Int("pubmed", len(pubmedResults)),
		zap.Int("semantic_scholar", len(semanticResults)),
		zap.Int("total", len(combined)),
	)

	// An empty set usually means a transient outage; caching it would pin
	// the user to zero citations until the TTL expires.
	if s.cache != nil && len(combined) > 0 {
		s.cache.SetCitations(ctx, cacheKey, combined)
	}
	return combined
}

type distilledFact struct {
	Text        string   `json:"text"`
	CitationIDs []string `json:"citationIds"`
}

type distilledFacts struct {
	Facts []distilledFact `json:"facts"`
}

func healthFactsSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"facts"},
		"properties": map[string]any{
			"facts": map[string]any{
				"type":     "array",
				"minItems": 3,
				"maxItems": 6,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"text", "citationIds"},
					"properties": map[string]any{
						"text": map[string]any{"type": "string"},
						"citationIds": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 1,
							"maxItems": 2,
						},
					},
				},
			},
		},
	}
}

// Distill compresses the citation set into 3-6 user-facing claims, each
// linked to the citations that support it. A fact whose references cannot
// all be resolved against the input set is dropped. Model failures yield
// an empty list; an empty citation set short-circuits without a call.
func (s *Service) Distill(ctx context.Context, profile *domain.Profile, cites []domain.Citation) []domain.Fact {
	if len(cites) == 0 {
		return nil
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		s.logger.Warn("Distill profile marshal failed", zap.Error(err))
		return nil
	}
	citationsJSON, err := json.Marshal(cites)
	if err != nil {
		s.logger.Warn("Distill citations marshal failed", zap.Error(err))
		return nil
	}

	prompt := strings.Join([]string{
		"Profile:",
		string(profileJSON),
		"\nCitations:",
		string(citationsJSON),
		"\nReturn 3-6 JSON facts referencing citationIds. Highlight longevity, pain reduction, adherence, or metabolic health insights.",
	}, " ")

	var parsed distilledFacts
	err = s.gen.GenerateStructured(ctx, ai.StructuredRequest{
		SchemaName: "health_facts",
		Schema:     healthFactsSchema(),
		System:     distillSystemPrompt,
		User:       prompt,
	}, &parsed)
	if err != nil {
		s.logger.Warn("Fact distillation failed", zap.Error(err))
		return nil
	}

	byID := make(map[string]domain.Citation, len(cites))
	for _, citation := range cites {
		byID[citation.ID] = citation
	}

	facts := make([]domain.Fact, 0, len(parsed.Facts))
	for _, fact := range parsed.Facts {
		if fact.Text == "" || len(fact.CitationIDs) == 0 {
			continue
		}
		resolved := make([]domain.Citation, 0, len(fact.CitationIDs))
		ok := true
		for _, id := range fact.CitationIDs {
			citation, found := byID[id]
			if !found {
				s.logger.Warn("Fact references unknown citation, dropping",
					zap.String("citation_id", id),
				)
				ok = false
				break
			}
			resolved = append(resolved, citation)
		}
		if !ok || len(resolved) == 0 {
			continue
		}
		facts = append(facts, domain.Fact{Text: fact.Text, Citations: resolved})
	}

	return facts
}

func profileDigest(profile *domain.Profile) string {
	data, err := json.Marshal(profile)
	if err != nil {
		return "unknown"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
