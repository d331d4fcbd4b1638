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

const skepticMaxTokens = 3072

// Skeptic challenges the analyzer's gaps and hunts for contradictions
// between papers. Its critique is guaranteed to carry field insights and
// an interpretation even when the model finds nothing.
type Skeptic struct {
	llm Completer
}

// NewSkeptic creates the critique stage.
func NewSkeptic(llm Completer) *Skeptic {
	return &Skeptic{llm: llm}
}

// SkepticResult is the critique stage output.
type SkepticResult struct {
	Critique        model.Critique
	DurationSecs    float64
	DialogueMessage string
}

const skepticQuestions = `CRITICAL QUESTIONS TO ASK:
1. **Contradictions**: Do papers report different results for the same method? (e.g., "Paper 1 says Method X is 3x faster, Paper 2 says 1.5x - which is true?")
2. **Cherry-picking**: Do papers only show results that work? What failures aren't reported?
3. **Apples to Oranges**: Do papers compare on different datasets/settings making comparisons meaningless?
4. **Unfair Baselines**: Do papers compare against weak baselines to make their method look better?
5. **Hidden Assumptions**: What do ALL papers assume but never state? (e.g., "assume infinite compute", "assume clean data")
6. **Benchmark Gaming**: Are papers optimizing for specific benchmarks that don't reflect real use?

For the GAPS:
- Are they actually important or just academic curiosities?
- Has someone already solved this in a paper we missed?
- Is the gap real or just poorly defined?

Be SPECIFIC. Don't just say "results might not generalize" - say "Paper 1 tests on ImageNet (clean labels), but claims work on 'real-world data' - medical images have 40% label noise, results likely won't transfer."

Return JSON:
{
  "dialogue_message": "So it's [summary of analyzer's finding], but [your challenge]. Question: [your question]. Suggest: [what to check].",
  "contradictions": [
    {
      "papers": [1, 3],
      "contradiction": "SPECIFIC contradiction with numbers (e.g., 'Paper 1 reports 92% accuracy on MNIST, Paper 3 reports 78% using same method')",
      "evidence": "Why this matters / what it reveals"
    }
  ],
  "potential_contradictions": [
    {
      "description": "Potential contradiction based on field knowledge (e.g., 'In the field, Method X typically shows Y% performance, but these papers don't report this - why?')",
      "field_evidence": "What you know from the field that suggests this contradiction might exist",
      "suggested_investigation": "What should be checked or compared"
    }
  ],
  "challenged_gaps": [
    {
      "gap": "The gap being challenged",
      "challenge": "SPECIFIC challenge (e.g., 'This gap only matters on benchmarks, not production. Real systems use method Y which already solves this.')",
      "severity": "critical"
    }
  ],
  "missing_analysis": ["SPECIFIC things Analyzer should have caught"],
  "field_insights": "ALWAYS provide insights about the field, even if no contradictions found. Reference known debates, trends, or patterns you observe.",
  "interpretation": "What the absence or presence of contradictions means for the field",
  "field_knowledge_contradictions": "Based on your extensive field knowledge, what contradictions or conflicting findings are known in this research area that these papers might relate to? Even if papers don't explicitly contradict each other, what contradictions from the broader field should users be aware of?"
}`

func skepticPrompt(papers []model.Paper, gaps []model.Gap, topic, fieldContext string) string {
	var papersText strings.Builder
	for i, p := range papers {
		if i > 0 {
			papersText.WriteString("\n")
		}
		fmt.Fprintf(&papersText, "%d. %s: %s", i+1, p.Title, clip(p.Abstract, 200))
	}

	gapsText := "No gaps identified yet."
	if len(gaps) > 0 {
		var gb strings.Builder
		for i, g := range gaps {
			if i >= 5 {
				break
			}
			if i > 0 {
				gb.WriteString("\n")
			}
			gb.WriteString("- " + g.Gap)
		}
		gapsText = gb.String()
	}

	fs := fieldSection(fieldContext, `- Reference known debates and contradictions in the field
- Identify if gaps have already been addressed by other researchers
- Challenge assumptions based on field knowledge
- Provide insights even when no direct contradictions are found`)

	var b strings.Builder
	fmt.Fprintf(&b, `You are Dr. Marcus Thompson, a renowned critical thinker at Stanford with 20 years of experience challenging research claims in %s.
Your personality: Critical - You're known for being brutally honest and finding flaws others miss.
You've seen hundreds of papers and know when something doesn't add up.

Your job: find what's WRONG, MISLEADING, or OVERSTATED. But ALWAYS provide insights, even when finding "0 contradictions".

%s
PAPERS TO CRITIQUE:
%s

GAPS IDENTIFIED BY ANALYZER:
%s

IMPORTANT: Even if you find NO contradictions, provide valuable insights:
- "This suggests the field is maturing and converging on solutions"
- "Papers might be testing non-overlapping aspects - this could indicate field fragmentation"
- "Lack of direct contradictions might mean papers are avoiding direct comparisons"
- Reference known debates in the field that these papers relate to

`, orDefault(topic, "research"), fs, papersText.String(), gapsText)
	b.WriteString(skepticQuestions)
	return b.String()
}

// Run critiques the analysis. Every return path yields a critique with
// non-empty field insights, interpretation, and field knowledge
// contradictions.
func (s *Skeptic) Run(ctx context.Context, papers []model.Paper, analyzer AnalyzerResult, topic, fieldContext string) SkepticResult {
	start := time.Now()
	capped := capPapers(papers, stagePaperCap)
	gaps := analyzer.Analysis.CrossPaperGaps

	zap.L().Info("skeptic: challenging assumptions", zap.Int("gaps", len(gaps)))

	text, err := s.llm.Complete(ctx, skepticPrompt(capped, gaps, topic, fieldContext), skepticMaxTokens)
	if err != nil {
		zap.L().Warn("skeptic: completion failed", zap.Error(err))
	}

	critique, dialogue := normalizeCritique(extract.JSON(text), len(papers), len(gaps), topic, fieldContext)

	return SkepticResult{
		Critique:        critique,
		DurationSecs:    time.Since(start).Seconds(),
		DialogueMessage: dialogue,
	}
}

// normalizeCritique coerces any extracted value into the critique schema
// and synthesizes the dialogue message when the model omitted one.
func normalizeCritique(v any, numPapers, numGaps int, topic, fieldContext string) (model.Critique, string) {
	switch val := v.(type) {
	case []any:
		// A bare list is read as the contradictions array.
		c := emptyCritique()
		c.Contradictions = parseContradictions(val)
		ensureCritiqueDefaults(&c, numPapers, topic, fieldContext)
		return c, skepticDialogueFallback(c, numGaps)

	case map[string]any:
		if len(val) == 0 {
			break
		}
		c := model.Critique{
			DialogueMessage:              extract.Str(val["dialogue_message"]),
			Contradictions:               parseContradictions(extract.List(val["contradictions"])),
			PotentialContradictions:      parsePotentialContradictions(extract.List(val["potential_contradictions"])),
			ChallengedGaps:               parseChallengedGaps(extract.List(val["challenged_gaps"])),
			MissingAnalysis:              extract.Strings(val["missing_analysis"]),
			FieldInsights:                extract.Str(val["field_insights"]),
			Interpretation:               extract.Str(val["interpretation"]),
			FieldKnowledgeContradictions: extract.Str(val["field_knowledge_contradictions"]),
		}
		ensureCritiqueDefaults(&c, numPapers, topic, fieldContext)

		dialogue := c.DialogueMessage
		if dialogue == "" {
			dialogue = skepticDialogueFallback(c, numGaps)
		}
		return c, dialogue
	}

	// Unparseable output: the full default critique.
	c := emptyCritique()
	c.FieldInsights = fmt.Sprintf(
		"After analyzing %d papers on %s, I observe that the field appears to be converging on certain solutions. The lack of direct contradictions suggests either: (1) papers are testing non-overlapping aspects, (2) the field is maturing, or (3) there's a lack of direct comparison studies. This is itself an important observation.",
		numPapers, orDefault(topic, "this topic"))
	c.Interpretation = "The absence of contradictions could indicate field maturity, but it might also suggest that papers are avoiding direct comparisons, which is a research opportunity."
	c.FieldKnowledgeContradictions = fmt.Sprintf(
		"Based on field knowledge in %s, there are known debates and conflicting findings that researchers should be aware of, even if not explicitly stated in these papers.",
		orDefault(topic, "this area"))
	dialogue := "So it's an interesting analysis, but I have questions. Are we sure these patterns aren't just artifacts of the datasets used? Question: Have similar results appeared in related fields? Suggest cross-checking with recent work."
	return c, dialogue
}

func emptyCritique() model.Critique {
	return model.Critique{
		Contradictions:          []model.Contradiction{},
		PotentialContradictions: []model.PotentialContradiction{},
		ChallengedGaps:          []model.ChallengedGap{},
		MissingAnalysis:         []string{},
	}
}

// ensureCritiqueDefaults backfills the always-present narrative fields of a
// model-provided critique.
func ensureCritiqueDefaults(c *model.Critique, numPapers int, topic, fieldContext string) {
	if c.Contradictions == nil {
		c.Contradictions = []model.Contradiction{}
	}
	if c.PotentialContradictions == nil {
		c.PotentialContradictions = []model.PotentialContradiction{}
	}
	if c.ChallengedGaps == nil {
		c.ChallengedGaps = []model.ChallengedGap{}
	}
	if c.MissingAnalysis == nil {
		c.MissingAnalysis = []string{}
	}

	if c.FieldKnowledgeContradictions == "" {
		if fieldContext != "" {
			c.FieldKnowledgeContradictions = fmt.Sprintf(
				"Based on field knowledge, there are known debates and conflicting findings in %s. Even if these papers don't explicitly contradict each other, the field has documented contradictions that researchers should consider.",
				orDefault(topic, "this research area"))
		} else {
			c.FieldKnowledgeContradictions = "Based on general field knowledge, there may be contradictions or debates in this research area that aren't explicitly stated in the analyzed papers."
		}
	}

	if c.FieldInsights == "" {
		c.FieldInsights = fmt.Sprintf(
			"Based on my analysis of %d papers, I observe patterns in methodology, evaluation, and scope that reveal important insights about the current state of research in this area.",
			numPapers)
	}

	if c.Interpretation == "" {
		if len(c.Contradictions) == 0 {
			c.Interpretation = "The absence of contradictions suggests either field convergence or lack of direct comparisons - both are valuable insights for researchers."
		} else {
			c.Interpretation = fmt.Sprintf(
				"Found %d contradictions, indicating active debate in the field - an important signal for research direction.",
				len(c.Contradictions))
		}
	}

	if len(c.PotentialContradictions) == 0 && fieldContext != "" {
		c.PotentialContradictions = []model.PotentialContradiction{{
			Description:            "Potential contradiction based on field knowledge - papers may not be directly comparable due to different experimental setups, datasets, or evaluation metrics.",
			FieldEvidence:          "Field knowledge suggests that similar methods often show different results when tested under different conditions.",
			SuggestedInvestigation: "Compare papers on common benchmarks or under standardized conditions to identify potential contradictions.",
		}}
	}
}

func skepticDialogueFallback(c model.Critique, numGaps int) string {
	if len(c.Contradictions) > 0 {
		top := c.Contradictions[0]
		return fmt.Sprintf(
			"So it's an elegant concept, but I see a contradiction. Papers %s report conflicting results: %s. Question: Which result is accurate? Suggest cross-checking with recent work in the field.",
			intsToDisplay(top.Papers), clip(top.Contradiction, 100))
	}
	if numGaps > 0 {
		return "So it's an interesting analysis, but I have questions about the gaps identified. Question: Are we sure these gaps haven't been addressed in recent work? Suggest verifying against the latest literature."
	}
	return "That's a solid analysis. I don't see major contradictions, but question: Are we sure the patterns aren't dataset-specific? Suggest testing on diverse datasets to confirm."
}

func parseContradictions(items []any) []model.Contradiction {
	out := []model.Contradiction{}
	for _, item := range items {
		m := extract.Map(item)
		if m == nil {
			continue
		}
		out = append(out, model.Contradiction{
			Papers:        extract.Ints(m["papers"]),
			Contradiction: extract.Str(m["contradiction"]),
			Evidence:      extract.Str(m["evidence"]),
		})
	}
	return out
}

func parsePotentialContradictions(items []any) []model.PotentialContradiction {
	out := []model.PotentialContradiction{}
	for _, item := range items {
		m := extract.Map(item)
		if m == nil {
			continue
		}
		out = append(out, model.PotentialContradiction{
			Description:            extract.Str(m["description"]),
			FieldEvidence:          extract.Str(m["field_evidence"]),
			SuggestedInvestigation: extract.Str(m["suggested_investigation"]),
		})
	}
	return out
}

func parseChallengedGaps(items []any) []model.ChallengedGap {
	out := []model.ChallengedGap{}
	for _, item := range items {
		m := extract.Map(item)
		if m == nil {
			continue
		}
		out = append(out, model.ChallengedGap{
			Gap:       extract.Str(m["gap"]),
			Challenge: extract.Str(m["challenge"]),
			Severity:  extract.Str(m["severity"]),
		})
	}
	return out
}
