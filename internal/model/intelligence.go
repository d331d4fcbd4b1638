package model

// ThemeData groups the research themes extracted from a paper corpus across
// eight dimensions, plus flattened methodology and application lists.
type ThemeData struct {
	Themes        Themes   `json:"themes"`
	Methodologies []string `json:"methodologies"`
	Applications  []string `json:"applications"`
}

// Themes are the eight theme dimensions.
type Themes struct {
	Architectures []string `json:"architectures"`
	Paradigms     []string `json:"paradigms"`
	Applications  []string `json:"applications"`
	Datasets      []string `json:"datasets"`
	Optimization  []string `json:"optimization"`
	Evaluation    []string `json:"evaluation"`
	Challenges    []string `json:"challenges"`
	Trends        []string `json:"trends"`
}

// MethodologyCombination is an unexplored pairing of methods from different
// papers, scored by opportunity.
type MethodologyCombination struct {
	Combination      string  `json:"combination"`
	Rationale        string  `json:"rationale"`
	PapersInvolved   []int   `json:"papers_involved,omitempty"`
	OpportunityScore float64 `json:"opportunity_score"`
}

// TemporalTrends summarizes how the field has shifted between older and
// recent papers.
type TemporalTrends struct {
	Trends           []string    `json:"trends"`
	RecentFocus      []string    `json:"recent_focus"`
	Evolution        string      `json:"evolution"`
	YearDistribution map[int]int `json:"year_distribution,omitempty"`
}

// AuthorStat counts one author's presence in the corpus.
type AuthorStat struct {
	Name         string   `json:"name"`
	PaperCount   int      `json:"paper_count"`
	SamplePapers []string `json:"sample_papers,omitempty"`
}

// Intelligence is the field-level context gathered before the pipeline runs.
type Intelligence struct {
	FieldContext            string                   `json:"field_context,omitempty"`
	Themes                  *ThemeData               `json:"themes,omitempty"`
	MethodologyCombinations []MethodologyCombination `json:"methodology_combinations,omitempty"`
	TemporalTrends          *TemporalTrends          `json:"temporal_trends,omitempty"`
	TopAuthors              []AuthorStat             `json:"top_authors,omitempty"`
}
