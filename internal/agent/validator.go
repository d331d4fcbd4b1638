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

const (
	validatorMaxTokens  = 1024
	challengePaperCap   = 3
	defaultSurviveScore = 8.5
	inconclusiveScore   = 7.0
	lastResortScore     = 5.0
)

// Searcher finds papers for a validation query. The pipeline uses the
// arXiv source here; anything returning papers works.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]model.Paper, error)
}

// Validator challenges each insight against recent literature. Insights
// that cannot be contradicted survive; weak ones are rejected, though at
// least one insight always comes back.
type Validator struct {
	llm      Completer
	searcher Searcher
}

// NewValidator creates the validation stage.
func NewValidator(llm Completer, searcher Searcher) *Validator {
	return &Validator{llm: llm, searcher: searcher}
}

// ValidatorStats counts validation outcomes across a run.
type ValidatorStats struct {
	Survived int
	Refined  int
	Rejected int
}

const validatorRubric = `CITATION-AWARE VALIDATION:
1. **Novelty Check**: Has this hypothesis been explicitly tested? Search your knowledge of the field.
2. **Contradiction Check**: Do any of these papers (or known work) directly address this?
3. **Related Work**: What related papers should be cited? Are there partial solutions?
4. **Refinement**: If valid, how can we refine to be more precise given existing work?
5. **Validation Statement**: Write a clear validation statement in narrative form (like "Quick check: scanning OpenAlex and 2023-2025 arXiv. 'Equivariant Transformers' cover group constraints, but none evaluate them as data-regularizers. → Insight validated.")

🔬 EXPERIMENT DESIGN EVALUATION:
Evaluate the experiment design on scientific rigor:
1. **Completeness** (0-10): Does the plan cover variables + metrics? Are independent/dependent variables clearly defined? Is there a control group?
2. **Reproducibility** (0-10): Can another researcher execute it? Is the procedure clear and detailed enough?
3. **Informativeness** (0-10): Does it produce interpretable data? Are the deliverables specified? Will results be meaningful?
4. **Branch Logic** (0-10): What if results differ? Is there a fallback plan? Are failure scenarios addressed?

Score each criterion and provide an overall experiment_design_quality score (average of the four criteria).

Scoring (0-10):
- 0-3: Gap is invalid/already solved
- 4-6: Gap is partially valid but needs major refinement
- 7-10: Gap survives, possibly with minor refinement

Return JSON:
{
  "gap_still_valid": true/false,
  "survival_score": 0-10,
  "refinement": "Updated gap/observation statement (or original if no changes needed)",
  "evidence": "Narrative validation statement: 'Quick check: scanning [sources]. [What you found]. → [Conclusion]'",
  "related_work": ["List of related papers or topics that should be cited"],
  "validation_comment": "Brief comment on novelty and validation status",
  "experiment_design_evaluation": {
    "completeness": 0-10,
    "reproducibility": 0-10,
    "informativeness": 0-10,
    "branch_logic": 0-10,
    "overall_quality": 0-10,
    "feedback": "Brief feedback on experiment design quality and suggestions for improvement"
  }
}`

func validatorPrompt(in model.Insight, challengeText, fieldContext string) string {
	fs := fieldSection(fieldContext, `- Reference seminal papers and important prior work
- Know what has already been done in the field
- Identify if gaps are truly novel or already addressed
- Understand recent trends and field evolution`)

	var b strings.Builder
	fmt.Fprintf(&b, `You are Dr. James Park, a rigorous research validator at Harvard with 22 years of experience.
Your personality: Rigorous - You're known for being thorough and ensuring research is truly novel.
You have encyclopedic knowledge of prior work and know what's been done.

Your job: Validate this research insight with CITATION-AWARE reasoning. Check if the space is already occupied,
if the hypothesis has been tested, if the expected insight conflicts with known work.

IMPORTANT: Generate your validation in a DIALOGUE STYLE as if you're reporting at a research roundtable.
Format: "Quick check: scanning [sources]. [What you found]. → [Conclusion]."

%s
PROPOSED INSIGHT:
Title: %s
Observation: %s
Hypothesis: %s
Expected Insight: %s

EXPERIMENT DESIGN:
%s

RECENT PAPERS THAT MIGHT CONTRADICT THIS:
%s

`, fs,
		in.Title,
		orDefault(in.Observation, in.Gap),
		orDefault(in.Hypothesis, "N/A"),
		orDefault(in.ExpectedInsight, "N/A"),
		formatExperimentDesign(in.ExperimentDesign),
		orDefault(challengeText, "No specific contradicting papers found in search."),
	)
	b.WriteString(validatorRubric)
	return b.String()
}

// Run validates insights one by one and returns the survivors. An empty
// result is converted to the single highest-novelty insight, flagged as
// unvalidated.
func (v *Validator) Run(ctx context.Context, insights []model.Insight, topic, fieldContext string) ([]model.Insight, ValidatorStats, float64) {
	start := time.Now()

	var validated []model.Insight
	var stats ValidatorStats

	for i, insight := range insights {
		zap.L().Info("validator: checking insight",
			zap.Int("index", i+1),
			zap.Int("total", len(insights)),
		)

		query := searchKeywords(insight.Title, insight.Gap, topic)

		challengers, err := v.searcher.Search(ctx, query, challengePaperCap)
		if err != nil {
			zap.L().Warn("validator: search failed", zap.Int("index", i+1), zap.Error(err))
			challengers = nil
		}

		// No contradicting papers means the insight survives by default.
		if len(challengers) == 0 {
			insight.Validated = true
			insight.SurvivalScore = defaultSurviveScore
			insight.ValidationEvidence = "No contradicting prior work found in recent literature. Gap appears valid."
			validated = append(validated, insight)
			stats.Survived++
			continue
		}

		var challengeLines []string
		for _, p := range capPapers(challengers, challengePaperCap) {
			challengeLines = append(challengeLines,
				fmt.Sprintf("- %s (%d): %s...", p.Title, p.Year, clip(p.Abstract, 200)))
		}
		challengeText := strings.Join(challengeLines, "\n")

		text, err := v.llm.Complete(ctx, validatorPrompt(insight, challengeText, fieldContext), validatorMaxTokens)
		if err != nil {
			zap.L().Warn("validator: completion failed", zap.Int("index", i+1), zap.Error(err))
		}

		verdict := verdictMap(extract.JSON(text))
		if verdict == nil {
			zap.L().Warn("validator: verdict parsing failed, defaulting to survive", zap.Int("index", i+1))
			insight.Validated = true
			insight.SurvivalScore = inconclusiveScore
			insight.ValidationEvidence = "Validation inconclusive - insight retained with caution."
			validated = append(validated, insight)
			stats.Survived++
			continue
		}

		score := extract.NumOr(verdict["survival_score"], 5)
		gapValid := extract.Bool(verdict["gap_still_valid"], score >= 6)
		evidence := extract.StrOr(verdict["evidence"], "Gap validated against recent literature.")

		if !gapValid || score < 6 {
			stats.Rejected++
			zap.L().Info("validator: insight rejected",
				zap.Int("index", i+1), zap.Float64("score", score))
			continue
		}

		originalObservation := insight.Observation
		gapText := insight.Gap

		insight.Validated = true
		insight.SurvivalScore = score
		insight.ValidationEvidence = evidence
		insight.ValidationDialogue = evidence
		if related := extract.Strings(verdict["related_work"]); len(related) > 0 {
			insight.RelatedWork = related
		}
		if comment := extract.Str(verdict["validation_comment"]); comment != "" {
			insight.ValidationComment = comment
		}

		if eval := extract.Map(verdict["experiment_design_evaluation"]); len(eval) > 0 {
			insight.DesignQuality = extract.Num(eval["overall_quality"])
			insight.DesignFeedback = extract.Str(eval["feedback"])
			insight.DesignScores = &model.DesignScores{
				Completeness:    extract.Num(eval["completeness"]),
				Reproducibility: extract.Num(eval["reproducibility"]),
				Informativeness: extract.Num(eval["informativeness"]),
				BranchLogic:     extract.Num(eval["branch_logic"]),
			}
		}

		refinement := extract.Str(verdict["refinement"])
		if strings.TrimSpace(refinement) != "" {
			if originalObservation != "" && strings.TrimSpace(refinement) != strings.TrimSpace(originalObservation) {
				insight.Observation = refinement
			}
			if originalObservation == "" || strings.TrimSpace(refinement) != strings.TrimSpace(gapText) {
				insight.Gap = refinement
			}
			stats.Refined++
			zap.L().Info("validator: insight survived with refinement",
				zap.Int("index", i+1), zap.Float64("score", score))
		} else {
			stats.Survived++
			zap.L().Info("validator: insight survived unchanged",
				zap.Int("index", i+1), zap.Float64("score", score))
		}

		validated = append(validated, insight)
	}

	// Never return an empty result when input existed. The highest-novelty
	// insight is kept, explicitly marked as unvalidated.
	if len(validated) == 0 && len(insights) > 0 {
		zap.L().Warn("validator: all insights rejected, keeping highest-novelty insight")
		best := insights[0]
		for _, in := range insights[1:] {
			if in.NoveltyScore > best.NoveltyScore {
				best = in
			}
		}
		best.Validated = false
		best.SurvivalScore = lastResortScore
		best.ValidationEvidence = "All insights were challenged, but this had the highest novelty score."
		validated = []model.Insight{best}
	}

	zap.L().Info("validator: validation complete",
		zap.Int("survived", stats.Survived),
		zap.Int("refined", stats.Refined),
		zap.Int("rejected", stats.Rejected),
	)

	return validated, stats, time.Since(start).Seconds()
}

// verdictMap unwraps the validation JSON. A list response degrades to its
// first object; anything else yields nil.
func verdictMap(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case []any:
		if len(val) > 0 {
			return extract.Map(val[0])
		}
	}
	return nil
}

// formatExperimentDesign renders a design for the validation prompt.
// Scientific-methodology fields lead; the week timeline appears alone
// when nothing else is set, or as a trailing legacy block otherwise.
func formatExperimentDesign(d model.ExperimentDesign) string {
	if d.IsZero() {
		return "No experiment design provided."
	}

	var lines []string
	if d.Objective != "" {
		lines = append(lines, "Objective: "+d.Objective)
	}
	if d.IndependentVariable != "" {
		lines = append(lines, "Independent Variable: "+d.IndependentVariable)
	}
	if len(d.DependentVariables) > 0 {
		lines = append(lines, "Dependent Variables: "+strings.Join(d.DependentVariables, ", "))
	}
	if d.ControlGroup != "" {
		lines = append(lines, "Control Group: "+d.ControlGroup)
	}
	if len(d.Procedure) > 0 {
		lines = append(lines, "Experimental Procedure:")
		for _, phase := range d.Procedure {
			lines = append(lines, fmt.Sprintf("  %s: %s", phase.Name, phase.Description))
		}
	}
	if d.ExpectedOutcome != "" {
		lines = append(lines, "Expected Outcome: "+d.ExpectedOutcome)
	}
	if d.FallbackPlan != "" {
		lines = append(lines, "Fallback Plan: "+d.FallbackPlan)
	}
	if len(d.Deliverables) > 0 {
		lines = append(lines, "Deliverables: "+strings.Join(d.Deliverables, ", "))
	}

	hasWeeks := d.Week1 != "" || d.Week2 != "" || d.Week3 != ""
	if len(lines) == 0 && hasWeeks {
		lines = append(lines,
			"Week 1: "+orDefault(d.Week1, "N/A"),
			"Week 2: "+orDefault(d.Week2, "N/A"),
			"Week 3: "+orDefault(d.Week3, "N/A"),
		)
	} else if hasWeeks {
		lines = append(lines,
			"\nLegacy Timeline:",
			"Week 1: "+orDefault(d.Week1, "N/A"),
			"Week 2: "+orDefault(d.Week2, "N/A"),
			"Week 3: "+orDefault(d.Week3, "N/A"),
		)
	}

	if len(lines) == 0 {
		return "Experiment design structure not available."
	}
	return strings.Join(lines, "\n")
}
