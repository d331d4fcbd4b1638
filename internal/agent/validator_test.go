package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

func challengePapers() []model.Paper {
	return []model.Paper{{
		Title:    "Prior Work on Sparse Attention",
		Abstract: "We already explored sparse attention at scale.",
		Year:     2023,
	}}
}

func TestValidatorSurvivesWithoutChallengers(t *testing.T) {
	llm := &scriptedLLM{}
	searcher := &stubSearcher{}

	validated, stats, _ := NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{{Title: "Novel Direction", Gap: "unexplored combination"}}, "ml", "")

	require.Len(t, validated, 1)
	assert.True(t, validated[0].Validated)
	assert.Equal(t, 8.5, validated[0].SurvivalScore)
	assert.Equal(t,
		"No contradicting prior work found in recent literature. Gap appears valid.",
		validated[0].ValidationEvidence)
	assert.Equal(t, 1, stats.Survived)
	assert.Empty(t, llm.prompts)
}

func TestValidatorSearchFailureCountsAsNoChallengers(t *testing.T) {
	llm := &scriptedLLM{}
	searcher := &stubSearcher{err: assert.AnError}

	validated, stats, _ := NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{{Title: "Anything"}}, "ml", "")

	require.Len(t, validated, 1)
	assert.Equal(t, 8.5, validated[0].SurvivalScore)
	assert.Equal(t, 1, stats.Survived)
}

func TestValidatorInconclusiveOnParseFailure(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"completely unparseable"}}
	searcher := &stubSearcher{papers: challengePapers()}

	validated, stats, _ := NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{{Title: "Challenged Idea", Gap: "gap"}}, "ml", "")

	require.Len(t, validated, 1)
	assert.True(t, validated[0].Validated)
	assert.Equal(t, 7.0, validated[0].SurvivalScore)
	assert.Equal(t,
		"Validation inconclusive - insight retained with caution.",
		validated[0].ValidationEvidence)
	assert.Equal(t, 1, stats.Survived)
}

func TestValidatorSurvivalAndRejection(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"gap_still_valid": false, "survival_score": 3, "evidence": "Already solved in 2022."}`,
		`{"gap_still_valid": true, "survival_score": 8,
		  "evidence": "Quick check: scanning arXiv. Nothing covers this. → Validated.",
		  "related_work": ["Equivariant Transformers"],
		  "validation_comment": "Novel enough.",
		  "experiment_design_evaluation": {
		    "completeness": 8, "reproducibility": 7, "informativeness": 9,
		    "branch_logic": 6, "overall_quality": 7.5, "feedback": "Add a second baseline."
		  }}`,
	}}
	searcher := &stubSearcher{papers: challengePapers()}

	insights := []model.Insight{
		{Title: "Stale Idea", Gap: "old gap"},
		{Title: "Fresh Idea", Gap: "new gap"},
	}

	validated, stats, _ := NewValidator(llm, searcher).Run(context.Background(), insights, "ml", "")

	require.Len(t, validated, 1)
	in := validated[0]
	assert.Equal(t, "Fresh Idea", in.Title)
	assert.True(t, in.Validated)
	assert.Equal(t, 8.0, in.SurvivalScore)
	assert.Equal(t, in.ValidationEvidence, in.ValidationDialogue)
	assert.Equal(t, []string{"Equivariant Transformers"}, in.RelatedWork)
	assert.Equal(t, "Novel enough.", in.ValidationComment)
	assert.Equal(t, 7.5, in.DesignQuality)
	require.NotNil(t, in.DesignScores)
	assert.Equal(t, 9.0, in.DesignScores.Informativeness)

	assert.Equal(t, 1, stats.Survived)
	assert.Equal(t, 1, stats.Rejected)
}

func TestValidatorAppliesRefinement(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"gap_still_valid": true, "survival_score": 7, "refinement": "Sharper gap statement."}`,
	}}
	searcher := &stubSearcher{papers: challengePapers()}

	validated, stats, _ := NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{{Title: "Idea", Observation: "Broad observation.", Gap: "Broad gap."}}, "ml", "")

	require.Len(t, validated, 1)
	assert.Equal(t, "Sharper gap statement.", validated[0].Observation)
	assert.Equal(t, "Sharper gap statement.", validated[0].Gap)
	assert.Equal(t, 1, stats.Refined)
	assert.Equal(t, 0, stats.Survived)
}

func TestValidatorScoreSixWithoutValidityFlagIsRejected(t *testing.T) {
	// Default validity follows the score, so 5 means rejected even
	// without an explicit gap_still_valid.
	llm := &scriptedLLM{responses: []string{`{"survival_score": 5}`}}
	searcher := &stubSearcher{papers: challengePapers()}

	validated, _, _ := NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{{Title: "Borderline", NoveltyScore: 4}}, "ml", "")

	// Terminal fallback resurrects the only insight, unvalidated.
	require.Len(t, validated, 1)
	assert.False(t, validated[0].Validated)
	assert.Equal(t, 5.0, validated[0].SurvivalScore)
	assert.Equal(t,
		"All insights were challenged, but this had the highest novelty score.",
		validated[0].ValidationEvidence)
}

func TestValidatorTerminalFallbackPicksHighestNovelty(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"gap_still_valid": false, "survival_score": 2}`,
		`{"gap_still_valid": false, "survival_score": 1}`,
	}}
	searcher := &stubSearcher{papers: challengePapers()}

	validated, stats, _ := NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{
			{Title: "Low", NoveltyScore: 3},
			{Title: "High", NoveltyScore: 9},
		}, "ml", "")

	require.Len(t, validated, 1)
	assert.Equal(t, "High", validated[0].Title)
	assert.False(t, validated[0].Validated)
	assert.Equal(t, 2, stats.Rejected)
}

func TestValidatorUsesKeywordQueries(t *testing.T) {
	llm := &scriptedLLM{}
	searcher := &stubSearcher{}

	NewValidator(llm, searcher).Run(context.Background(),
		[]model.Insight{{Title: "Symmetry Constraints", Gap: "untested regularization"}}, "deep learning", "")

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "symmetry constraints untested regularization deep learning", searcher.queries[0])
}

func TestFormatExperimentDesign(t *testing.T) {
	t.Run("empty design", func(t *testing.T) {
		assert.Equal(t, "No experiment design provided.", formatExperimentDesign(model.ExperimentDesign{}))
	})

	t.Run("weeks only", func(t *testing.T) {
		got := formatExperimentDesign(model.ExperimentDesign{Week1: "Reproduce baseline"})
		assert.Contains(t, got, "Week 1: Reproduce baseline")
		assert.Contains(t, got, "Week 2: N/A")
		assert.NotContains(t, got, "Legacy Timeline")
	})

	t.Run("scientific fields with legacy weeks", func(t *testing.T) {
		got := formatExperimentDesign(model.ExperimentDesign{
			Objective:          "Test the hypothesis",
			DependentVariables: []string{"accuracy", "latency"},
			Procedure: []model.ProcedurePhase{
				{Name: "phase1", Description: "Baseline"},
			},
			Week1: "Setup",
		})
		assert.Contains(t, got, "Objective: Test the hypothesis")
		assert.Contains(t, got, "Dependent Variables: accuracy, latency")
		assert.Contains(t, got, "  phase1: Baseline")
		assert.Contains(t, got, "Legacy Timeline:")
		assert.Contains(t, got, "Week 1: Setup")
	})
}
