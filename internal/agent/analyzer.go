package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OsamaMoftah/AiResearcher/internal/extract"
	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const analyzerMaxTokens = 4096

// Analyzer extracts methods, datasets, limitations, and cross-paper gaps
// from a set of papers.
type Analyzer struct {
	llm Completer
}

// NewAnalyzer creates the analysis stage.
func NewAnalyzer(llm Completer) *Analyzer {
	return &Analyzer{llm: llm}
}

// AnalyzerResult is the analysis stage output.
type AnalyzerResult struct {
	Analysis        model.Analysis
	PapersAnalyzed  int
	DurationSecs    float64
	DialogueMessage string
}

const analyzerFramework = `DEEP ANALYSIS FRAMEWORK:
For each paper, extract:
1. **Core method** (in one sentence)
2. **Key dataset** (name it specifically)
3. **Stated limitations** (what authors admit doesn't work)
4. **Hidden limitations** (what they DON'T say but you can infer - e.g., only tested on toy data, assumes infinite compute, requires clean labels)
5. **Future work** (what they suggest)

Then find CROSS-PAPER PATTERNS:
Look for gaps that appear in MULTIPLE papers:
- Do all papers test on the same narrow dataset? (e.g., "everyone uses ImageNet, nobody tests on medical images")
- Do all papers ignore the same problem? (e.g., "nobody addresses training cost")
- Do papers make the same unstated assumption? (e.g., "all assume clean labels")

QUALITY BAR:
- Be SPECIFIC: Not "better datasets needed" but "all papers use ImageNet (1000 classes), none test on fine-grained datasets (10K+ classes)"
- Identify WHY gap exists: "Too expensive? Too hard? Just overlooked?"
- Estimate IMPACT: "If solved, enables X, unlocks Y market, resolves Z debate"

Return JSON:
{
  "dialogue_message": "I've extracted the core claim: [summary]. Limitation: [key limitation]. This suggests [pattern].",
  "paper_analyses": [
    {
      "paper_num": 1,
      "methods": ["specific method name"],
      "datasets": ["specific dataset name"],
      "limitations": ["stated limitation 1", "hidden limitation 2"]
    }
  ],
  "cross_paper_gaps": [
    {
      "gap": "SPECIFIC gap with evidence (e.g., 'All 5 papers test on sequences <16K tokens, but production needs 100K+')",
      "severity": "high",
      "papers_affected": [1,2,3],
      "why_matters": "Specific impact (e.g., 'This prevents deployment in legal/medical domains where documents are 50K-500K tokens')"
    }
  ]
}`

func analyzerPrompt(papers []model.Paper, topic, fieldContext string) string {
	var papersText strings.Builder
	for i, p := range papers {
		if i > 0 {
			papersText.WriteString("\n\n")
		}
		fmt.Fprintf(&papersText, "PAPER %d:\nTitle: %s\nAbstract: %s", i+1, p.Title, clip(p.Abstract, 400))
	}

	fs := fieldSection(fieldContext, `- Compare papers against known benchmarks and standards
- Identify limitations that papers don't explicitly state
- Reference important authors, methodologies, and debates in the field
- Infer gaps based on field knowledge, not just what papers say`)

	var b strings.Builder
	fmt.Fprintf(&b, `You are Dr. Sarah Chen, a leading research analyst at MIT with 15 years of experience in %s.
You have reviewed hundreds of papers in this field and know the key players, methodologies, and debates.
Your personality: Analytical - You see patterns others miss and think systematically.

Your job: find what's REALLY missing, not just what papers say is missing.

IMPORTANT: Generate your findings in a DIALOGUE STYLE as if you're presenting at a research roundtable.
Start with: "I've extracted..." or "I've analyzed..." and state your findings clearly.

%s
CURRENT PAPERS TO ANALYZE:
%s

`, orDefault(topic, "research analysis"), fs, papersText.String())
	b.WriteString(analyzerFramework)
	return b.String()
}

// Run analyzes the top papers and returns normalized gaps. Any completion
// or parse failure degrades to an empty analysis with a synthesized
// dialogue message.
func (a *Analyzer) Run(ctx context.Context, papers []model.Paper, topic, fieldContext string) AnalyzerResult {
	start := time.Now()
	capped := capPapers(papers, stagePaperCap)

	zap.L().Info("analyzer: analyzing papers", zap.Int("papers", len(papers)))

	text, err := a.llm.Complete(ctx, analyzerPrompt(capped, topic, fieldContext), analyzerMaxTokens)
	if err != nil {
		zap.L().Warn("analyzer: completion failed", zap.Error(err))
	}

	analysis := normalizeAnalysis(extract.JSON(text))

	dialogue := analysis.DialogueMessage
	if dialogue == "" {
		if gaps := analysis.CrossPaperGaps; len(gaps) > 0 {
			dialogue = fmt.Sprintf(
				"I've extracted the core patterns from %d papers. Key finding: %s. Limitation: %s",
				len(papers),
				clip(gaps[0].Gap, 150),
				clip(orDefault(gaps[0].WhyMatters, "Important research gap identified."), 100),
			)
		} else {
			dialogue = fmt.Sprintf(
				"I've analyzed %d papers and identified several cross-paper patterns and limitations.",
				len(papers),
			)
		}
	}

	return AnalyzerResult{
		Analysis:        analysis,
		PapersAnalyzed:  len(capped),
		DurationSecs:    time.Since(start).Seconds(),
		DialogueMessage: dialogue,
	}
}

// normalizeAnalysis coerces any extracted value into the analysis schema.
// A bare list is treated as paper analyses; anything else non-map yields
// the empty analysis.
func normalizeAnalysis(v any) model.Analysis {
	var out model.Analysis

	switch val := v.(type) {
	case map[string]any:
		out.DialogueMessage = extract.Str(val["dialogue_message"])
		out.PaperAnalyses = parsePaperAnalyses(extract.List(val["paper_analyses"]))
		out.CrossPaperGaps = parseGaps(extract.List(val["cross_paper_gaps"]))
	case []any:
		out.PaperAnalyses = parsePaperAnalyses(val)
	}

	if out.PaperAnalyses == nil {
		out.PaperAnalyses = []model.PaperAnalysis{}
	}
	if out.CrossPaperGaps == nil {
		out.CrossPaperGaps = []model.Gap{}
	}
	return out
}

func parsePaperAnalyses(items []any) []model.PaperAnalysis {
	var out []model.PaperAnalysis
	for _, item := range items {
		m := extract.Map(item)
		if m == nil {
			continue
		}
		out = append(out, model.PaperAnalysis{
			PaperNum:    int(extract.Num(m["paper_num"])),
			Methods:     extract.Strings(m["methods"]),
			Datasets:    extract.Strings(m["datasets"]),
			Limitations: extract.Strings(m["limitations"]),
		})
	}
	return out
}

func parseGaps(items []any) []model.Gap {
	var out []model.Gap
	for _, item := range items {
		m := extract.Map(item)
		if m == nil {
			continue
		}
		out = append(out, model.Gap{
			Gap:            extract.Str(m["gap"]),
			Severity:       extract.Str(m["severity"]),
			PapersAffected: extract.Ints(m["papers_affected"]),
			WhyMatters:     extract.Str(m["why_matters"]),
		})
	}
	return out
}
