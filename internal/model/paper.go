package model

// Default field values applied when a source returns incomplete records.
const (
	DefaultTitle    = "Untitled"
	DefaultAbstract = "No abstract available."
)

// Paper is an immutable record of an academic work returned by a paper
// source. Missing fields are filled with the defaults above at the source
// boundary; everything downstream can rely on them being present.
type Paper struct {
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Authors  []string `json:"authors,omitempty"`
	Year     int      `json:"year"`
	URL      string   `json:"url,omitempty"`

	// Platform metadata, populated by the multi-source aggregator.
	Platform  string `json:"platform,omitempty"`
	Citations string `json:"citations,omitempty"`
	RepoURL   string `json:"repo_url,omitempty"`
	Type      string `json:"type,omitempty"`
}
