package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const pubmedDefaultBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Pubmed queries NCBI PubMed through the E-utilities two-step
// esearch/efetch flow.
type Pubmed struct {
	cfg clientConfig
}

// NewPubmed creates a PubMed client.
func NewPubmed(opts ...Option) *Pubmed {
	return &Pubmed{cfg: newClientConfig(pubmedDefaultBase, opts...)}
}

// Name returns the platform identifier.
func (p *Pubmed) Name() string { return "pubmed" }

// Search resolves matching article IDs first, then fetches their records.
func (p *Pubmed) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	if max > 100 {
		max = 100
	}

	searchParams := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", max)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}

	body, err := p.cfg.fetch(ctx, p.cfg.baseURL+"/esearch.fcgi?"+searchParams.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "pubmed: search")
	}

	var sr pubmedSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "pubmed: parse search response")
	}
	if len(sr.ESearchResult.IDList) == 0 {
		return nil, nil
	}

	fetchParams := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(sr.ESearchResult.IDList, ",")},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}

	body, err = p.cfg.fetch(ctx, p.cfg.baseURL+"/efetch.fcgi?"+fetchParams.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "pubmed: fetch articles")
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, eris.Wrap(err, "pubmed: parse articles")
	}

	papers := make([]model.Paper, 0, len(set.Articles))
	for _, art := range set.Articles {
		paper := model.Paper{
			Title:    art.Citation.Article.Title,
			Abstract: strings.Join(art.Citation.Article.Abstract.Text, " "),
			Year:     yearFrom(art.Citation.Article.Journal.Issue.PubDate.Year),
			URL:      "https://pubmed.ncbi.nlm.nih.gov/" + art.Citation.PMID + "/",
		}
		for _, au := range art.Citation.Article.Authors {
			if au.LastName == "" {
				continue
			}
			name := au.LastName
			if au.ForeName != "" {
				name += ", " + au.ForeName
			}
			paper.Authors = append(paper.Authors, name)
		}
		normalize(&paper)
		papers = append(papers, paper)
	}
	return papers, nil
}

// PubMed E-utilities response structures.
type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				Issue struct {
					PubDate struct {
						Year string `xml:"Year"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			Authors []struct {
				LastName string `xml:"LastName"`
				ForeName string `xml:"ForeName"`
			} `xml:"AuthorList>Author"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}
