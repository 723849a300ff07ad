package citations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/haeun/fitcoach-go/internal/domain"
	"go.uber.org/zap"
)

var pubYearPattern = regexp.MustCompile(`(19|20|21)\d{2}`)

// PubMedClient searches the NCBI eutils index: an esearch call for ids,
// then an esummary call for bibliographic records. Failures are non-fatal;
// the client logs and returns an empty list.
type PubMedClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPubMedClient(baseURL string, maxResults int, httpClient *http.Client, logger *zap.Logger) *PubMedClient {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &PubMedClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxResults: maxResults,
		httpClient: httpClient,
		logger:     logger,
	}
}

type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedAuthor struct {
	Name string `json:"name"`
}

type pubmedRecord struct {
	Title           string         `json:"title"`
	Authors         []pubmedAuthor `json:"authors"`
	PubDate         string         `json:"pubdate"`
	FullJournalName string         `json:"fulljournalname"`
	ELocationID     string         `json:"elocationid"`
	DocSum          string         `json:"docsum"`
}

type pubmedSummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

func (c *PubMedClient) Search(ctx context.Context, query string) []domain.Citation {
	if query == "" {
		return nil
	}

	searchParams := url.Values{}
	searchParams.Set("db", "pubmed")
	searchParams.Set("sort", "pub date")
	searchParams.Set("retmode", "json")
	searchParams.Set("retmax", fmt.Sprintf("%d", c.maxResults))
	searchParams.Set("term", query)

	var searchResp pubmedSearchResponse
	if err := c.getJSON(ctx, "/esearch.fcgi", searchParams, &searchResp); err != nil {
		c.logger.Warn("PubMed search failed", zap.Error(err))
		return nil
	}

	idList := searchResp.ESearchResult.IDList
	if len(idList) == 0 {
		return nil
	}

	summaryParams := url.Values{}
	summaryParams.Set("db", "pubmed")
	summaryParams.Set("retmode", "json")
	summaryParams.Set("id", strings.Join(idList, ","))

	var summaryResp pubmedSummaryResponse
	if err := c.getJSON(ctx, "/esummary.fcgi", summaryParams, &summaryResp); err != nil {
		c.logger.Warn("PubMed summary fetch failed", zap.Error(err))
		return nil
	}

	out := make([]domain.Citation, 0, len(idList))
	for _, id := range idList {
		raw, ok := summaryResp.Result[id]
		if !ok {
			continue
		}
		var record pubmedRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			c.logger.Warn("PubMed record decode failed",
				zap.String("pmid", id),
				zap.Error(err),
			)
			continue
		}

		authors := make([]string, 0, len(record.Authors))
		for _, author := range record.Authors {
			if author.Name != "" {
				authors = append(authors, author.Name)
			}
		}

		source := record.FullJournalName
		if source == "" {
			source = "PubMed"
		}

		out = append(out, domain.Citation{
			ID:      "pubmed:" + id,
			Title:   record.Title,
			Authors: authors,
			Year:    parsePubYear(record.PubDate),
			Source:  source,
			URL:     fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", id),
			DOI:     parseELocationDOI(record.ELocationID),
			Summary: record.DocSum,
		})
	}

	return out
}

func (c *PubMedClient) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("pubmed responded %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// parsePubYear extracts the publication year from a pubdate like
// "2023 Mar 14"; missing or unparsable dates fall back to the current year.
func parsePubYear(pubDate string) int {
	match := pubYearPattern.FindString(pubDate)
	if match == "" {
		return time.Now().Year()
	}
	var year int
	fmt.Sscanf(match, "%d", &year)
	return year
}

// parseELocationDOI pulls a DOI out of an elocationid like
// "doi: 10.1001/jama.2023.1234".
func parseELocationDOI(elocation string) string {
	if !strings.Contains(elocation, "doi") {
		return ""
	}
	parts := strings.SplitN(elocation, "doi:", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
