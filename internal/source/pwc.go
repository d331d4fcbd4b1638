package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const pwcDefaultBase = "https://paperswithcode.com/api/v1"

// Pwc queries the Papers with Code API.
type Pwc struct {
	cfg clientConfig
}

// NewPwc creates a Papers with Code client.
func NewPwc(opts ...Option) *Pwc {
	return &Pwc{cfg: newClientConfig(pwcDefaultBase, opts...)}
}

// Name returns the platform identifier.
func (p *Pwc) Name() string { return "pwc" }

// Search queries Papers with Code ordered by paper popularity. Entries with
// very short titles are noise in this API and get skipped.
func (p *Pwc) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	if max > 30 {
		max = 30
	}

	params := url.Values{
		"q":         {query},
		"page_size": {fmt.Sprintf("%d", max)},
		"ordering":  {"-paper_count"},
	}

	body, err := p.cfg.fetch(ctx, p.cfg.baseURL+"/papers/?"+params.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "pwc: search")
	}

	var resp pwcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "pwc: parse response")
	}

	papers := make([]model.Paper, 0, len(resp.Results))
	for _, item := range resp.Results {
		if len(item.Title) < 10 {
			continue
		}
		paper := model.Paper{
			Title:     item.Title,
			Abstract:  item.Abstract,
			Authors:   item.Authors,
			Year:      yearFrom(item.Published),
			URL:       item.URLAbs,
			RepoURL:   item.URLRepo,
			Citations: strconv.Itoa(item.PaperCount),
		}
		if paper.URL == "" {
			paper.URL = item.URLPdf
		}
		normalize(&paper)
		papers = append(papers, paper)
	}
	return papers, nil
}

// Papers with Code API JSON structures.
type pwcResponse struct {
	Results []pwcPaper `json:"results"`
}

type pwcPaper struct {
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    []string `json:"authors"`
	Published  string   `json:"published"`
	URLAbs     string   `json:"url_abs"`
	URLPdf     string   `json:"url_pdf"`
	URLRepo    string   `json:"url_repo"`
	PaperCount int      `json:"paper_count"`
}
