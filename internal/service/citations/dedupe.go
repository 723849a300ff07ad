package citations

import "github.com/haeun/fitcoach-go/internal/domain"

// Dedupe collapses citations that share a normalized identity key to the
// first occurrence, preserving input order.
func Dedupe(citations []domain.Citation) []domain.Citation {
	seen := make(map[string]struct{}, len(citations))
	out := make([]domain.Citation, 0, len(citations))

	for _, citation := range citations {
		key := citation.DedupeKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, citation)
	}

	return out
}
