// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/httputil"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// patentsViewSearchBase is the PatentsView patent search endpoint. Declared
// as a var so tests can substitute an httptest server.
var patentsViewSearchBase = "https://search.patentsview.org/api/v1/patent/"

// patentsViewFields lists the fields requested from the API.
const patentsViewFields = `["patent_id","patent_title","patent_abstract","patent_date","inventors.inventor_name_first","inventors.inventor_name_last","assignees.assignee_organization"]`

const patentsViewMaxPerPage = 1000

// PatentsViewProvider queries the USPTO PatentsView API.
type PatentsViewProvider struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the provider identifier.
func (p *PatentsViewProvider) Name() string { return "patentsview" }

// Search runs a full-text query against patent titles and abstracts.
func (p *PatentsViewProvider) Search(ctx context.Context, query string, limit int) ([]types.RawHit, error) {
	q := buildPatentsViewQuery(query)
	if q == "" {
		return nil, &errs.Error{Kind: errs.KindPermanent, Op: "patentsview.search", Provider: p.Name(), Message: "empty query"}
	}

	params := url.Values{
		"q": {q},
		"f": {patentsViewFields},
		"o": {fmt.Sprintf(`{"size":%d}`, clampLimit(limit, patentsViewMaxPerPage))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, patentsViewSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindPermanent, "patentsview.search", fmt.Errorf("creating request: %w", err))
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	if p.APIKey != "" {
		req.Header.Set("X-Api-Key", p.APIKey)
	}

	resp, err := httputil.Do(p.Client, req, p.Name())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var pvr patentsViewResponse
	if err := json.NewDecoder(resp.Body).Decode(&pvr); err != nil {
		return nil, errs.Wrap(errs.KindPermanent, "patentsview.search", fmt.Errorf("parsing PatentsView response: %w", err))
	}
	if pvr.Error {
		return nil, &errs.Error{Kind: errs.KindPermanent, Op: "patentsview.search", Provider: p.Name(), Message: "PatentsView reported a query error"}
	}

	hits := make([]types.RawHit, 0, len(pvr.Patents))
	for _, patent := range pvr.Patents {
		id := "US" + patent.PatentID
		hits = append(hits, types.RawHit{
			ID:       id,
			Title:    patent.PatentTitle,
			Snippet:  patent.PatentAbstract,
			Link:     "https://patents.google.com/patent/" + id,
			Assignee: patent.firstAssignee(),
			Inventor: patent.inventorNames(),
			Date:     patent.PatentDate,
		})
	}
	return hits, nil
}

// buildPatentsViewQuery matches any query word in the title or abstract.
func buildPatentsViewQuery(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	esc := escapeJSON(text)
	return fmt.Sprintf(`{"_or":[{"_text_any":{"patent_title":"%s"}},{"_text_any":{"patent_abstract":"%s"}}]}`, esc, esc)
}

// escapeJSON escapes a string for safe inclusion in a JSON string value.
func escapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// PatentsView API JSON structures.
type patentsViewResponse struct {
	Error   bool                `json:"error"`
	Patents []patentsViewPatent `json:"patents"`
	Count   int                 `json:"count"`
	Total   int                 `json:"total_hits"`
}

type patentsViewPatent struct {
	PatentID       string                `json:"patent_id"`
	PatentTitle    string                `json:"patent_title"`
	PatentAbstract string                `json:"patent_abstract"`
	PatentDate     string                `json:"patent_date"`
	Inventors      []patentsViewInventor `json:"inventors"`
	Assignees      []patentsViewAssignee `json:"assignees"`
}

type patentsViewInventor struct {
	InventorNameFirst string `json:"inventor_name_first"`
	InventorNameLast  string `json:"inventor_name_last"`
}

type patentsViewAssignee struct {
	AssigneeOrganization string `json:"assignee_organization"`
}

func (p patentsViewPatent) inventorNames() string {
	var names []string
	for _, inv := range p.Inventors {
		name := strings.TrimSpace(inv.InventorNameFirst + " " + inv.InventorNameLast)
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func (p patentsViewPatent) firstAssignee() string {
	for _, a := range p.Assignees {
		if a.AssigneeOrganization != "" {
			return a.AssigneeOrganization
		}
	}
	return ""
}
