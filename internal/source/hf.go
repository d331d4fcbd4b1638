package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const hfDefaultBase = "https://huggingface.co"

// Hf queries the Hugging Face model hub. Model cards come back as
// paper-like records so the pipeline can reason over deployed work, not
// just publications.
type Hf struct {
	cfg clientConfig
}

// NewHf creates a Hugging Face client.
func NewHf(opts ...Option) *Hf {
	return &Hf{cfg: newClientConfig(hfDefaultBase, opts...)}
}

// Name returns the platform identifier.
func (h *Hf) Name() string { return "hf" }

// Search queries the model hub sorted by downloads.
func (h *Hf) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	params := url.Values{
		"search":    {query},
		"sort":      {"downloads"},
		"direction": {"-1"},
		"limit":     {fmt.Sprintf("%d", max)},
		"full":      {"true"},
	}

	body, err := h.cfg.fetch(ctx, h.cfg.baseURL+"/api/models?"+params.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "hf: search")
	}

	var items []hfModel
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, eris.Wrap(err, "hf: parse response")
	}

	papers := make([]model.Paper, 0, len(items))
	for _, item := range items {
		p := model.Paper{
			Title:    item.ID,
			Abstract: item.description(),
			Year:     yearFrom(item.LastModified),
			URL:      hfDefaultBase + "/" + item.ID,
			Type:     "Model",
		}
		if item.Author != "" && item.Author != "Unknown" {
			p.Authors = []string{item.Author}
		}
		normalize(&p)
		papers = append(papers, p)
	}
	return papers, nil
}

// Hugging Face API JSON structures.
type hfModel struct {
	ID           string     `json:"id"`
	Author       string     `json:"author"`
	LastModified string     `json:"lastModified"`
	Description  string     `json:"description"`
	CardData     hfCardData `json:"cardData"`
}

type hfCardData struct {
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Text        string `json:"text"`
}

// description picks the first populated description field of the model card.
func (m hfModel) description() string {
	for _, s := range []string{m.CardData.Description, m.CardData.Summary, m.CardData.Text, m.Description} {
		if s != "" {
			return s
		}
	}
	return ""
}
