package domain

import "strings"

// Citation is a reference to a published work. DOI and Summary are empty
// when the source did not supply them.
type Citation struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	Source  string   `json:"source"`
	URL     string   `json:"url"`
	DOI     string   `json:"doi,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

// DedupeKey is the identity used when merging citation lists from multiple
// sources: DOI when present, else title, else id, case-insensitively.
func (c *Citation) DedupeKey() string {
	key := c.DOI
	if key == "" {
		key = c.Title
	}
	if key == "" {
		key = c.ID
	}
	return strings.ToLower(key)
}

// Fact is a short user-facing claim backed by at least one citation.
type Fact struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}
