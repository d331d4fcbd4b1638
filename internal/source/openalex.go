package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const openAlexDefaultBase = "https://api.openalex.org"

// OpenAlex queries the OpenAlex Works API.
type OpenAlex struct {
	cfg clientConfig
}

// NewOpenAlex creates an OpenAlex client.
func NewOpenAlex(opts ...Option) *OpenAlex {
	return &OpenAlex{cfg: newClientConfig(openAlexDefaultBase, opts...)}
}

// Name returns the platform identifier.
func (o *OpenAlex) Name() string { return "openalex" }

// Search queries OpenAlex works sorted by relevance.
func (o *OpenAlex) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {fmt.Sprintf("%d", max)},
		"page":     {"1"},
	}

	body, err := o.cfg.fetch(ctx, o.cfg.baseURL+"/works?"+params.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "openalex: search")
	}

	var oar openAlexResponse
	if err := json.Unmarshal(body, &oar); err != nil {
		return nil, eris.Wrap(err, "openalex: parse response")
	}

	papers := make([]model.Paper, 0, len(oar.Results))
	for _, work := range oar.Results {
		p := model.Paper{
			Title:    work.Title,
			Abstract: reconstructAbstract(work.AbstractInvertedIndex),
			Year:     work.PublicationYear,
			URL:      work.ID,
		}
		if work.DOI != "" {
			p.URL = work.DOI
		}
		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				p.Authors = append(p.Authors, authorship.Author.DisplayName)
			}
		}
		normalize(&p)
		papers = append(papers, p)
	}
	return papers, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}
