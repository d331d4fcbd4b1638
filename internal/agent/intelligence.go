package agent

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/OsamaMoftah/AiResearcher/internal/extract"
	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const (
	fieldContextMaxTokens = 1536
	themesMaxTokens       = 2048
	combosMaxTokens       = 1536
	trendsMaxTokens       = 1024

	themePaperCap = 20
	comboPaperCap = 15
	topAuthorCap  = 5

	// Re-prompt threshold for field context. Anything shorter is treated
	// as a refusal or truncation.
	minFieldContextLen = 200
)

// Intelligence derives field-level context from a paper set: themes,
// methodology combinations, temporal trends, and author statistics. LLM
// failures degrade to keyword or counting fallbacks.
type Intelligence struct {
	llm Completer
}

// NewIntelligence creates the field intelligence helper.
func NewIntelligence(llm Completer) *Intelligence {
	return &Intelligence{llm: llm}
}

// GenerateFieldContext produces domain knowledge text for the stage
// prompts. Short responses trigger one more specific re-prompt.
func (r *Intelligence) GenerateFieldContext(ctx context.Context, topic string) string {
	prompt := fmt.Sprintf(`You are a domain expert in "%s". Provide a comprehensive field context including:

1. **Key Players**: Important researchers, labs, institutions in this field
2. **Seminal Papers**: Foundational papers everyone references
3. **Current Debates**: Active debates and open questions
4. **Common Methodologies**: Standard approaches used
5. **Known Limitations**: Well-known problems in the field
6. **Recent Trends**: What's hot right now
7. **Important Conferences/Journals**: Where this research is published

Be specific and reference real names, papers, and institutions when possible.

Format as a structured field context document.`, topic)

	text, err := r.llm.Complete(ctx, prompt, fieldContextMaxTokens)
	if err != nil {
		zap.L().Warn("intelligence: field context failed", zap.Error(err))
	}

	if len(text) < minFieldContextLen {
		retryPrompt := fmt.Sprintf(`Provide detailed field context for "%s". Include:
- 5-10 key researchers/labs
- 3-5 seminal papers
- 2-3 current debates
- Common methodologies
- Known limitations
- Recent trends (2023-2024)

Be specific with names and details.`, topic)

		text, err = r.llm.Complete(ctx, retryPrompt, fieldContextMaxTokens)
		if err != nil {
			zap.L().Warn("intelligence: field context retry failed", zap.Error(err))
		}
	}

	if text == "" {
		return fmt.Sprintf("Field context for %s: Active research area with ongoing developments.", topic)
	}
	return text
}

// ExtractResearchThemes pulls eight theme dimensions from the papers,
// falling back to keyword frequency when the model output is unusable.
func (r *Intelligence) ExtractResearchThemes(ctx context.Context, papers []model.Paper, topic string) *model.ThemeData {
	if len(papers) == 0 {
		return &model.ThemeData{}
	}
	capped := capPapers(papers, themePaperCap)

	var papersText strings.Builder
	for i, p := range capped {
		if i > 0 {
			papersText.WriteString("\n\n")
		}
		fmt.Fprintf(&papersText, "PAPER %d:\nTitle: %s\nAbstract: %s\nAuthors: %s\nYear: %d",
			i+1, p.Title, clip(p.Abstract, 500), strings.Join(firstN(p.Authors, 3), ", "), p.Year)
	}

	prompt := fmt.Sprintf(`You are a research analyst extracting key themes from papers on "%s".

PAPERS:
%s

Extract research themes across 8 dimensions:
1. **Architectures** - Model architectures, network designs (e.g., "Transformer variants", "CNN architectures")
2. **Paradigms** - Learning paradigms, approaches (e.g., "Self-supervised learning", "Few-shot learning")
3. **Applications** - Real-world applications, domains (e.g., "Computer vision", "NLP", "Healthcare")
4. **Datasets** - Key datasets used (e.g., "ImageNet", "COCO", "GLUE")
5. **Optimization** - Training methods, optimization techniques (e.g., "Adam variants", "Learning rate schedules")
6. **Evaluation** - Metrics, benchmarks (e.g., "Accuracy", "BLEU", "F1-score")
7. **Challenges** - Problems addressed (e.g., "Overfitting", "Scalability", "Interpretability")
8. **Trends** - Emerging directions (e.g., "Efficient models", "Multimodal learning")

For each dimension, list 3-5 specific themes found in these papers.

Return JSON:
{
  "themes": {
    "architectures": ["theme1", "theme2", "theme3"],
    "paradigms": ["theme1", "theme2"],
    "applications": ["theme1", "theme2", "theme3"],
    "datasets": ["dataset1", "dataset2"],
    "optimization": ["method1", "method2"],
    "evaluation": ["metric1", "metric2"],
    "challenges": ["challenge1", "challenge2"],
    "trends": ["trend1", "trend2"]
  },
  "methodologies": ["method1", "method2", "method3"],
  "applications": ["app1", "app2", "app3"]
}`, topic, papersText.String())

	text, err := r.llm.Complete(ctx, prompt, themesMaxTokens)
	if err != nil {
		zap.L().Warn("intelligence: theme extraction failed", zap.Error(err))
	}

	m := extract.Map(extract.JSON(text))
	if m == nil {
		zap.L().Warn("intelligence: theme response unusable, using keyword fallback")
		return themesFallback(papers, topic)
	}

	themes := extract.Map(m["themes"])
	return &model.ThemeData{
		Themes: model.Themes{
			Architectures: extract.Strings(themes["architectures"]),
			Paradigms:     extract.Strings(themes["paradigms"]),
			Applications:  extract.Strings(themes["applications"]),
			Datasets:      extract.Strings(themes["datasets"]),
			Optimization:  extract.Strings(themes["optimization"]),
			Evaluation:    extract.Strings(themes["evaluation"]),
			Challenges:    extract.Strings(themes["challenges"]),
			Trends:        extract.Strings(themes["trends"]),
		},
		Methodologies: extract.Strings(m["methodologies"]),
		Applications:  extract.Strings(m["applications"]),
	}
}

var themeWordRe = regexp.MustCompile(`\b[a-z]{4,}\b`)

// themesFallback ranks recurring words from titles and abstracts.
func themesFallback(papers []model.Paper, topic string) *model.ThemeData {
	var all strings.Builder
	for i, p := range papers {
		if i > 0 {
			all.WriteString(" ")
		}
		all.WriteString(p.Title)
		all.WriteString(" ")
		all.WriteString(clip(p.Abstract, 200))
	}

	counts := map[string]int{}
	var order []string
	for _, w := range themeWordRe.FindAllString(strings.ToLower(all.String()), -1) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	// Most common first, first appearance breaks ties.
	rank := make(map[string]int, len(order))
	for i, w := range order {
		rank[w] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return rank[order[i]] < rank[order[j]]
	})

	var common []string
	for _, w := range order {
		if len(common) == 20 {
			break
		}
		if counts[w] >= 2 {
			common = append(common, w)
		}
	}

	return &model.ThemeData{
		Themes: model.Themes{
			Architectures: sliceRange(common, 0, 3),
			Paradigms:     sliceRange(common, 3, 6),
			Applications:  []string{topic},
		},
		Methodologies: sliceRange(common, 0, 5),
		Applications:  []string{topic},
	}
}

// AnalyzeMethodologyCombinations asks for promising cross-paper method
// pairings. A non-list response yields an empty slice.
func (r *Intelligence) AnalyzeMethodologyCombinations(ctx context.Context, papers []model.Paper) []model.MethodologyCombination {
	if len(papers) == 0 {
		return nil
	}
	capped := capPapers(papers, comboPaperCap)

	var papersText strings.Builder
	for i, p := range capped {
		if i > 0 {
			papersText.WriteString("\n")
		}
		fmt.Fprintf(&papersText, "%d. %s: %s", i+1, p.Title, clip(p.Abstract, 300))
	}

	prompt := fmt.Sprintf(`Analyze these papers and identify methodology combinations that could be promising:

PAPERS:
%s

Look for:
1. Methods from different papers that could be combined
2. Techniques that complement each other
3. Unexplored intersections

Return JSON array:
[
  {
    "combination": "Method A from Paper 1 + Method B from Paper 2",
    "rationale": "Why this combination is promising",
    "papers_involved": [1, 2],
    "opportunity_score": 8
  }
]`, papersText.String())

	text, err := r.llm.Complete(ctx, prompt, combosMaxTokens)
	if err != nil {
		zap.L().Warn("intelligence: methodology combinations failed", zap.Error(err))
	}

	items := extract.List(extract.JSON(text))
	var combos []model.MethodologyCombination
	for _, item := range items {
		m := extract.Map(item)
		if m == nil {
			continue
		}
		combos = append(combos, model.MethodologyCombination{
			Combination:      extract.Str(m["combination"]),
			Rationale:        extract.Str(m["rationale"]),
			PapersInvolved:   extract.Ints(m["papers_involved"]),
			OpportunityScore: extract.Num(m["opportunity_score"]),
		})
	}
	return combos
}

// AnalyzeTemporalTrends compares recent papers (within two years of the
// newest) against older ones. Uses all papers for the year histogram.
func (r *Intelligence) AnalyzeTemporalTrends(ctx context.Context, papers []model.Paper) *model.TemporalTrends {
	if len(papers) == 0 {
		return &model.TemporalTrends{YearDistribution: map[int]int{}}
	}

	yearCounts := map[int]int{}
	maxYear := 0
	for _, p := range papers {
		if p.Year == 0 {
			continue
		}
		yearCounts[p.Year]++
		if p.Year > maxYear {
			maxYear = p.Year
		}
	}

	var recent, older []model.Paper
	for _, p := range papers {
		switch {
		case p.Year == 0:
		case p.Year >= maxYear-2:
			recent = append(recent, p)
		default:
			older = append(older, p)
		}
	}

	insufficient := &model.TemporalTrends{
		Trends:           []string{"Insufficient data for trend analysis"},
		RecentFocus:      []string{},
		Evolution:        "Cannot determine evolution with available data",
		YearDistribution: yearCounts,
	}
	if len(recent) == 0 {
		return insufficient
	}

	recentText := joinPaperText(capPapers(recent, 5))
	olderText := joinPaperText(capPapers(older, 5))
	if olderText == "" {
		olderText = "No older papers for comparison"
	}

	prompt := fmt.Sprintf(`Analyze temporal trends in this research area:

RECENT PAPERS (last 2 years):
%s

OLDER PAPERS:
%s

Identify:
1. What's NEW in recent papers vs older ones?
2. What trends are emerging?
3. What's declining or being replaced?

Return JSON:
{
  "trends": ["trend1", "trend2", "trend3"],
  "recent_focus": ["focus1", "focus2"],
  "evolution": "How the field has evolved"
}`, recentText, olderText)

	text, err := r.llm.Complete(ctx, prompt, trendsMaxTokens)
	if err != nil {
		zap.L().Warn("intelligence: temporal trends failed", zap.Error(err))
	}

	m := extract.Map(extract.JSON(text))
	if m == nil {
		zap.L().Warn("intelligence: trend response unusable, using defaults")
		return &model.TemporalTrends{
			Trends:           []string{"Insufficient data"},
			RecentFocus:      []string{},
			Evolution:        "Cannot determine",
			YearDistribution: yearCounts,
		}
	}

	return &model.TemporalTrends{
		Trends:           extract.Strings(m["trends"]),
		RecentFocus:      extract.Strings(m["recent_focus"]),
		Evolution:        extract.Str(m["evolution"]),
		YearDistribution: yearCounts,
	}
}

// TopAuthors counts paper appearances per author. Pure counting, no LLM.
func (r *Intelligence) TopAuthors(papers []model.Paper) []model.AuthorStat {
	counts := map[string]int{}
	titles := map[string][]string{}
	var order []string

	for _, p := range papers {
		for _, author := range p.Authors {
			if strings.TrimSpace(author) == "" {
				continue
			}
			if counts[author] == 0 {
				order = append(order, author)
			}
			counts[author]++
			titles[author] = append(titles[author], p.Title)
		}
	}

	rank := make(map[string]int, len(order))
	for i, a := range order {
		rank[a] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return rank[order[i]] < rank[order[j]]
	})

	var top []model.AuthorStat
	for _, author := range order {
		if len(top) == topAuthorCap {
			break
		}
		top = append(top, model.AuthorStat{
			Name:         author,
			PaperCount:   counts[author],
			SamplePapers: firstN(titles[author], 3),
		})
	}
	return top
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func sliceRange(s []string, lo, hi int) []string {
	if lo > len(s) {
		lo = len(s)
	}
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}

func joinPaperText(papers []model.Paper) string {
	var b strings.Builder
	for i, p := range papers {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.Title)
		b.WriteString(" ")
		b.WriteString(clip(p.Abstract, 200))
	}
	return b.String()
}
