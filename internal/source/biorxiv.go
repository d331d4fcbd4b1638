package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const biorxivDefaultBase = "https://api.biorxiv.org"

// Biorxiv queries the bioRxiv preprint details API.
type Biorxiv struct {
	cfg clientConfig
}

// NewBiorxiv creates a bioRxiv client.
func NewBiorxiv(opts ...Option) *Biorxiv {
	return &Biorxiv{cfg: newClientConfig(biorxivDefaultBase, opts...)}
}

// Name returns the platform identifier.
func (b *Biorxiv) Name() string { return "biorxiv" }

// Search queries bioRxiv preprints for the topic.
func (b *Biorxiv) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	endpoint := fmt.Sprintf("%s/details/biorxiv/%s/%d/json",
		b.cfg.baseURL, url.PathEscape(query), max)

	body, err := b.cfg.fetch(ctx, endpoint)
	if err != nil {
		return nil, eris.Wrap(err, "biorxiv: search")
	}

	var resp biorxivResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "biorxiv: parse response")
	}

	papers := make([]model.Paper, 0, len(resp.Collection))
	for i, item := range resp.Collection {
		if i >= max {
			break
		}
		p := model.Paper{
			Title:    item.Title,
			Abstract: item.Abstract,
			Year:     yearFrom(item.Date),
			URL:      "https://www.biorxiv.org/content/" + item.DOI,
		}
		for _, au := range strings.Split(item.Authors, "; ") {
			if au = strings.TrimSpace(au); au != "" {
				p.Authors = append(p.Authors, au)
			}
		}
		normalize(&p)
		papers = append(papers, p)
	}
	return papers, nil
}

// bioRxiv API JSON structures.
type biorxivResponse struct {
	Collection []biorxivItem `json:"collection"`
}

type biorxivItem struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Authors  string `json:"authors"`
	Date     string `json:"date"`
	DOI      string `json:"doi"`
}
