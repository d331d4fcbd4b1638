package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const arxivDefaultBase = "http://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API.
type Arxiv struct {
	cfg clientConfig
}

// NewArxiv creates an arXiv client.
func NewArxiv(opts ...Option) *Arxiv {
	return &Arxiv{cfg: newClientConfig(arxivDefaultBase, opts...)}
}

// Name returns the platform identifier.
func (a *Arxiv) Name() string { return "arxiv" }

// Search queries arXiv sorted by relevance, capped at 100 results.
func (a *Arxiv) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	if max > 100 {
		max = 100
	}

	params := url.Values{
		"search_query": {fmt.Sprintf("all:%q", query)},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", max)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	body, err := a.cfg.fetch(ctx, a.cfg.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "arxiv: search")
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, eris.Wrap(err, "arxiv: parse feed")
	}

	papers := make([]model.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		p := model.Paper{
			Title:    strings.Join(strings.Fields(entry.Title), " "),
			Abstract: strings.TrimSpace(entry.Summary),
			Year:     yearFrom(entry.Published),
			URL:      entry.ID,
		}
		for _, au := range entry.Authors {
			if name := strings.TrimSpace(au.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		normalize(&p)
		papers = append(papers, p)
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
