package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

func TestSynthesizerParsesEnvelope(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{
		"dialogue_messages": ["That's interesting — I recall a connection."],
		"insights": [{
			"title": "Latent Diversity Beyond Accuracy",
			"source_papers": ["Paper 1"],
			"observation": "Diversity is only measured at outputs.",
			"hypothesis": "Latent diversity drives robustness.",
			"experiment_design": {
				"objective": "Test latent diversity regularization",
				"independent_variable": "Regularization weight",
				"dependent_variables": ["accuracy", "calibration"],
				"control_group": "Plain ensemble",
				"experimental_procedure": {"phase2": "Train with regularizer", "phase1": "Reproduce baseline"},
				"expected_outcome": "Correlation above 0.6",
				"fallback_plan": "Try contrastive pretraining",
				"deliverables": ["correlation plot"],
				"week1": "Baseline"
			},
			"expected_insight": "Representation-level diversity matters.",
			"gap": "Output-only diversity metrics",
			"skeptic_challenge": "Correlation vs causation",
			"impact": "Better ensembles",
			"novelty_score": 9,
			"feasibility_score": 7,
			"impact_score": 8.5
		}]
	}`}}

	insights, _ := NewSynthesizer(llm).Run(context.Background(), samplePapers(2),
		analyzerResultWithGaps(), SkepticResult{}, "", "")

	require.Len(t, insights, 1)
	in := insights[0]
	assert.Equal(t, "Latent Diversity Beyond Accuracy", in.Title)
	assert.Equal(t, 9.0, in.NoveltyScore)
	assert.Equal(t, 8.5, in.ImpactScore)
	assert.Equal(t, "That's interesting — I recall a connection.", in.DialogueMessage)

	d := in.ExperimentDesign
	assert.Equal(t, "Test latent diversity regularization", d.Objective)
	assert.Equal(t, []string{"accuracy", "calibration"}, d.DependentVariables)
	require.Len(t, d.Procedure, 2)
	assert.Equal(t, "phase1", d.Procedure[0].Name)
	assert.Equal(t, "Reproduce baseline", d.Procedure[0].Description)
	assert.Equal(t, "phase2", d.Procedure[1].Name)
}

func TestSynthesizerPromotesStringItems(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`["Combine retrieval with sparse attention for long documents"]`}}

	insights, _ := NewSynthesizer(llm).Run(context.Background(), samplePapers(1),
		analyzerResultWithGaps(), SkepticResult{}, "", "")

	require.Len(t, insights, 1)
	in := insights[0]
	assert.Equal(t, "Combine retrieval with sparse attention for long documents", in.Title)
	assert.Equal(t, in.Title, in.Gap)
	assert.Equal(t, 5.0, in.NoveltyScore)
	assert.Equal(t, 5.0, in.FeasibilityScore)
}

func TestSynthesizerGapFallback(t *testing.T) {
	llm := &scriptedLLM{err: eris.New("api down")}

	longGap := "all five papers evaluate exclusively on short synthetic benchmarks rather than realistic production workloads today"
	insights, _ := NewSynthesizer(llm).Run(context.Background(), samplePapers(2),
		analyzerResultWithGaps(
			model.Gap{Gap: longGap, WhyMatters: "deployment blocked"},
			model.Gap{Gap: "short gap"},
		), SkepticResult{}, "", "")

	require.Len(t, insights, 2)

	first := insights[0]
	assert.True(t, strings.HasPrefix(first.Title, "Research Direction 1: all five papers"))
	assert.True(t, strings.HasSuffix(first.Title, "..."))
	assert.Equal(t, longGap, first.Gap)
	assert.Equal(t, "deployment blocked", first.Impact)
	assert.Equal(t, 7.0, first.NoveltyScore)
	assert.Equal(t, 8.0, first.FeasibilityScore)
	assert.Equal(t, "Conduct comprehensive literature review to validate the gap", first.ExperimentDesign.Week1)
	assert.Contains(t, first.DialogueMessage, "That's interesting")

	second := insights[1]
	assert.Equal(t, "Research Direction 2: short gap", second.Title)
	assert.Equal(t, "Addresses identified limitation in current research", second.Impact)
}

func TestSynthesizerPaperFallback(t *testing.T) {
	llm := &scriptedLLM{err: eris.New("api down")}

	longTitle := strings.Repeat("Scaling Sparse Mixture Models ", 3) + "Across Domains"
	papers := []model.Paper{
		{Title: "Compact Paper"},
		{Title: longTitle},
	}

	insights, _ := NewSynthesizer(llm).Run(context.Background(), papers,
		analyzerResultWithGaps(), SkepticResult{}, "", "")

	require.Len(t, insights, 2)
	assert.Equal(t, "Extension of Compact Paper", insights[0].Title)
	assert.Equal(t, "Extension and Generalization of "+longTitle, insights[1].Title)
	assert.Equal(t, 6.0, insights[0].NoveltyScore)
	assert.Equal(t, 9.0, insights[0].FeasibilityScore)
	assert.Contains(t, insights[0].Gap, "'Compact Paper' presents promising results")
	assert.Contains(t, insights[0].ExperimentDesign.Week1, "Reproduce key results from 'Compact Paper'")
}

func TestSynthesizerRegeneratesDialogues(t *testing.T) {
	// Two insights but only one dialogue message forces regeneration.
	llm := &scriptedLLM{responses: []string{`{
		"dialogue_messages": ["only one"],
		"insights": [
			{"title": "A", "observation": "obs", "hypothesis": "latent diversity drives robustness"},
			{"title": "B", "gap": "unexplored intersection"}
		]
	}`}}

	insights, _ := NewSynthesizer(llm).Run(context.Background(), samplePapers(1),
		analyzerResultWithGaps(), SkepticResult{}, "", "")

	require.Len(t, insights, 2)
	assert.Equal(t,
		"That's interesting — I recall that obs. Maybe latent diversity drives robustness.",
		insights[0].DialogueMessage)
	assert.Equal(t,
		"I see an opportunity here. unexplored intersection This could be worth exploring.",
		insights[1].DialogueMessage)
}

func TestSynthesizerBackfillsTitles(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`[{"observation": "untitled idea"}]`}}

	insights, _ := NewSynthesizer(llm).Run(context.Background(), samplePapers(1),
		analyzerResultWithGaps(), SkepticResult{}, "", "")

	require.Len(t, insights, 1)
	assert.Equal(t, "Research Insight 1", insights[0].Title)
}

func TestSynthesizerPromptMentionsGapsAndContradictions(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`[]`}}

	NewSynthesizer(llm).Run(context.Background(), samplePapers(1),
		analyzerResultWithGaps(model.Gap{Gap: "narrow benchmarks", WhyMatters: "limits transfer"}),
		SkepticResult{Critique: model.Critique{Contradictions: []model.Contradiction{
			{Papers: []int{1, 2}, Contradiction: "conflicting speedups"},
		}}}, "", "")

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "- narrow benchmarks: limits transfer")
	assert.Contains(t, llm.prompts[0], "- Papers [1, 2]: conflicting speedups")
	assert.Contains(t, llm.prompts[0], "5-LAYER REASONING STRUCTURE")
}
