package citations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haeun/fitcoach-go/internal/domain"
	"go.uber.org/zap"
)

const semanticScholarFields = "title,year,venue,url,authors,abstract,externalIds"

// SemanticScholarClient searches the academic graph paper index. Every call
// acquires a slot from the shared Gate first; the provider throttles
// unauthenticated traffic aggressively. Failures are non-fatal.
type SemanticScholarClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	gate       *Gate
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSemanticScholarClient(baseURL, apiKey string, maxResults int, gate *Gate, httpClient *http.Client, logger *zap.Logger) *SemanticScholarClient {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SemanticScholarClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		maxResults: maxResults,
		gate:       gate,
		httpClient: httpClient,
		logger:     logger,
	}
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticPaper struct {
	PaperID     string           `json:"paperId"`
	Title       string           `json:"title"`
	Year        int              `json:"year"`
	Venue       string           `json:"venue"`
	URL         string           `json:"url"`
	Abstract    string           `json:"abstract"`
	Authors     []semanticAuthor `json:"authors"`
	ExternalIDs struct {
		DOI string `json:"DOI"`
	} `json:"externalIds"`
}

type semanticSearchResponse struct {
	Data []semanticPaper `json:"data"`
}

func (c *SemanticScholarClient) Search(ctx context.Context, query string) []domain.Citation {
	if query == "" {
		return nil
	}

	if err := c.gate.Wait(ctx); err != nil {
		c.logger.Warn("Semantic Scholar gate wait cancelled", zap.Error(err))
		return nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", c.maxResults))
	params.Set("fields", semanticScholarFields)

	reqURL := c.baseURL + "/paper/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("Semantic Scholar request build failed", zap.Error(err))
		return nil
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Semantic Scholar request failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("Semantic Scholar response not ok", zap.Int("status", resp.StatusCode))
		return nil
	}

	var searchResp semanticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		c.logger.Warn("Semantic Scholar decode failed", zap.Error(err))
		return nil
	}

	out := make([]domain.Citation, 0, len(searchResp.Data))
	for _, paper := range searchResp.Data {
		authors := make([]string, 0, len(paper.Authors))
		for _, author := range paper.Authors {
			if author.Name != "" {
				authors = append(authors, author.Name)
			}
		}

		year := paper.Year
		if year == 0 {
			year = time.Now().Year()
		}
		source := paper.Venue
		if source == "" {
			source = "Semantic Scholar"
		}
		paperURL := paper.URL
		if paperURL == "" {
			paperURL = "https://www.semanticscholar.org/paper/" + paper.PaperID
		}

		out = append(out, domain.Citation{
			ID:      "semantic:" + paper.PaperID,
			Title:   paper.Title,
			Authors: authors,
			Year:    year,
			Source:  source,
			URL:     paperURL,
			DOI:     paper.ExternalIDs.DOI,
			Summary: paper.Abstract,
		})
	}

	return out
}
