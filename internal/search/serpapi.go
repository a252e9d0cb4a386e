// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/httputil"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// serpAPISearchBase is the SerpAPI endpoint. Declared as a var so tests can
// substitute an httptest server.
var serpAPISearchBase = "https://serpapi.com/search.json"

// SerpAPI's google_patents engine accepts between 10 and 100 results per page.
const (
	serpAPIMinNum = 10
	serpAPIMaxNum = 100
)

// serpAPINoResults is the error text SerpAPI returns with HTTP 200 when a
// query simply matched nothing.
const serpAPINoResults = "hasn't returned any results"

// SerpAPIProvider queries Google Patents through SerpAPI.
type SerpAPIProvider struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the provider identifier.
func (p *SerpAPIProvider) Name() string { return "serpapi" }

// Search runs query on the google_patents engine and returns at most limit
// hits.
func (p *SerpAPIProvider) Search(ctx context.Context, query string, limit int) ([]types.RawHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &errs.Error{Kind: errs.KindPermanent, Op: "serpapi.search", Provider: p.Name(), Message: "empty query"}
	}
	limit = clampLimit(limit, serpAPIMaxNum)

	params := url.Values{
		"engine":  {"google_patents"},
		"q":       {query},
		"num":     {strconv.Itoa(max(limit, serpAPIMinNum))},
		"api_key": {p.APIKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPISearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindPermanent, "serpapi.search", fmt.Errorf("creating request: %w", err))
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := httputil.Do(p.Client, req, p.Name())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errs.Wrap(errs.KindPermanent, "serpapi.search", fmt.Errorf("parsing SerpAPI response: %w", err))
	}
	if sr.Error != "" {
		if strings.Contains(sr.Error, serpAPINoResults) {
			return []types.RawHit{}, nil
		}
		return nil, &errs.Error{Kind: errs.KindPermanent, Op: "serpapi.search", Provider: p.Name(), Message: sr.Error}
	}

	results := sr.OrganicResults
	if len(results) > limit {
		results = results[:limit]
	}
	hits := make([]types.RawHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, types.RawHit{
			ID:       r.number(),
			Title:    r.Title,
			Snippet:  r.Snippet,
			Link:     r.PatentLink,
			Assignee: r.Assignee,
			Inventor: r.Inventor,
			Date:     r.PublicationDate,
		})
	}
	return hits, nil
}

type serpAPIResponse struct {
	Error          string          `json:"error"`
	OrganicResults []serpAPIResult `json:"organic_results"`
}

type serpAPIResult struct {
	Title             string `json:"title"`
	Snippet           string `json:"snippet"`
	PatentID          string `json:"patent_id"`
	PublicationNumber string `json:"publication_number"`
	PatentLink        string `json:"patent_link"`
	Inventor          string `json:"inventor"`
	Assignee          string `json:"assignee"`
	PublicationDate   string `json:"publication_date"`
}

// number prefers the bare publication number and falls back to the
// "patent/<number>/<lang>" path.
func (r serpAPIResult) number() string {
	if r.PublicationNumber != "" {
		return r.PublicationNumber
	}
	parts := strings.Split(strings.Trim(r.PatentID, "/"), "/")
	if len(parts) >= 2 && parts[0] == "patent" {
		return parts[1]
	}
	return r.PatentID
}
