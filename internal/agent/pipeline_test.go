package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

func TestPipelineRequiresPapers(t *testing.T) {
	p := NewPipeline(&scriptedLLM{}, &stubSearcher{}, false)

	result, err := p.GenerateInsights(context.Background(), nil, "ml")

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestPipelineProducesFourTurns(t *testing.T) {
	// Intelligence disabled: analyzer, skeptic, synthesizer each consume
	// one completion; the validator finds no challengers and skips the
	// model entirely.
	llm := &scriptedLLM{responses: []string{
		`{
			"dialogue_message": "I've analyzed the set.",
			"cross_paper_gaps": [{"gap": "No scale tests", "why_matters": "Deployment risk"}]
		}`,
		`{
			"dialogue_message": "So it's plausible, but unproven.",
			"contradictions": [{"papers": [1, 2], "contradiction": "Conflicting accuracy", "evidence": "Same setup"}]
		}`,
		`{
			"dialogue_messages": ["That's interesting — scale gap."],
			"insights": [{"title": "Scale Testing Direction", "gap": "No scale tests", "hypothesis": "h", "novelty_score": 8}]
		}`,
	}}
	searcher := &stubSearcher{}

	p := NewPipeline(llm, searcher, false)
	result, err := p.GenerateInsights(context.Background(), samplePapers(3), "scaling")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Nil(t, result.Intelligence)
	assert.Equal(t, 3, result.PapersFound)
	require.Len(t, result.ConversationLog, 4)

	turn1 := result.ConversationLog[0]
	assert.Equal(t, 1, turn1.Turn)
	assert.Equal(t, model.AgentAnalyzer, turn1.Agent)
	assert.Empty(t, turn1.RespondingTo)
	assert.Equal(t, model.MessageObservation, turn1.MessageType)
	assert.Equal(t, "Analyzed papers and extracted limitations", turn1.Action)
	assert.Equal(t, "Found 1 cross-paper gaps", turn1.OutputSummary)
	assert.Contains(t, turn1.Thinking, "Analyzed 3 papers (from 3 total)")
	assert.Len(t, turn1.KeyFindings, 1)
	require.NotNil(t, turn1.Analysis)

	turn2 := result.ConversationLog[1]
	assert.Equal(t, model.AgentSkeptic, turn2.Agent)
	assert.Equal(t, []string{model.AgentAnalyzer}, turn2.RespondingTo)
	assert.Equal(t, model.MessageChallenge, turn2.MessageType)
	assert.Contains(t, turn2.OutputSummary, "Found 1 contradictions")
	assert.Len(t, turn2.Contradictions, 1)

	turn3 := result.ConversationLog[2]
	assert.Equal(t, model.AgentSynthesizer, turn3.Agent)
	assert.Equal(t, []string{model.AgentAnalyzer, model.AgentSkeptic}, turn3.RespondingTo)
	assert.Equal(t, model.MessageSynthesis, turn3.MessageType)
	assert.Equal(t, "Generated 1 actionable insights", turn3.OutputSummary)
	assert.Equal(t, "That's interesting — scale gap.", turn3.DialogueMessage)
	require.Len(t, turn3.Insights, 1)

	turn4 := result.ConversationLog[3]
	assert.Equal(t, model.AgentValidator, turn4.Agent)
	assert.Equal(t, []string{model.AgentSynthesizer}, turn4.RespondingTo)
	assert.Equal(t, model.MessageValidation, turn4.MessageType)
	assert.Equal(t, "1 survived | 0 rejected", turn4.OutputSummary)

	require.Len(t, result.Insights, 1)
	assert.True(t, result.Insights[0].Validated)
	assert.Equal(t, 8.5, result.Insights[0].SurvivalScore)

	// Validator defaults an empty topic to "research"; here the topic
	// flows through to the search query.
	require.Len(t, searcher.queries, 1)
	assert.Contains(t, searcher.queries[0], "scaling")
}

func TestPipelineValidatorDialogueFallback(t *testing.T) {
	// The default-survive path leaves validation_dialogue empty, so turn 4
	// synthesizes its roundtable line.
	llm := &scriptedLLM{responses: []string{`{}`, `{}`, `[]`}}

	p := NewPipeline(llm, &stubSearcher{}, false)
	result, err := p.GenerateInsights(context.Background(), samplePapers(2), "")

	require.NoError(t, err)
	turn4 := result.ConversationLog[3]
	assert.Contains(t, turn4.DialogueMessage, "Quick check: scanning recent literature.")
	assert.Contains(t, turn4.DialogueMessage, "→ Validation complete.")
}

func TestPipelineSkipsIntelligenceWithoutTopic(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{}`, `{}`, `[]`}}

	p := NewPipeline(llm, &stubSearcher{}, true)
	result, err := p.GenerateInsights(context.Background(), samplePapers(1), "")

	require.NoError(t, err)
	assert.Nil(t, result.Intelligence)
	// Only the three stage completions, no field context calls.
	assert.Len(t, llm.prompts, 3)
}

func TestPipelineGathersIntelligence(t *testing.T) {
	fieldContext := "Field context: an active research area with several leading labs, established benchmarks, and long-running debates about evaluation methodology and reproducibility across domains and datasets. Key venues publish yearly surveys and the main open questions remain unresolved."
	llm := &scriptedLLM{responses: []string{
		fieldContext, // field context (long enough to skip the re-prompt)
		`{"themes": {"architectures": ["transformers"]}, "methodologies": ["attention"], "applications": ["nlp"]}`,
		`[]`,  // methodology combinations
		`{"trends": ["efficiency"], "recent_focus": [], "evolution": "steady"}`,
		`{}`,  // analyzer
		`{}`,  // skeptic
		`[]`,  // synthesizer
	}}

	p := NewPipeline(llm, &stubSearcher{}, true)
	result, err := p.GenerateInsights(context.Background(), samplePapers(3), "nlp")

	require.NoError(t, err)
	require.NotNil(t, result.Intelligence)
	assert.Equal(t, fieldContext, result.Intelligence.FieldContext)
	assert.Equal(t, []string{"attention"}, result.Intelligence.Themes.Methodologies)
	assert.Equal(t, []string{"efficiency"}, result.Intelligence.TemporalTrends.Trends)
	require.NotEmpty(t, result.Intelligence.TopAuthors)

	// Stage prompts carry the generated field context.
	assert.Contains(t, llm.prompts[4], "FIELD CONTEXT (Your Domain Knowledge):")
}

func TestSampleForIntelligence(t *testing.T) {
	t.Run("small sets pass through", func(t *testing.T) {
		papers := samplePapers(49)
		assert.Len(t, sampleForIntelligence(papers), 49)
	})

	t.Run("large sets keep first twenty plus random sample", func(t *testing.T) {
		papers := samplePapers(60)
		sampled := sampleForIntelligence(papers)
		require.Len(t, sampled, 30)
		assert.Equal(t, papers[:20], sampled[:20])
		// The tail comes from beyond the head.
		seen := map[string]bool{}
		for _, p := range papers[:20] {
			seen[p.Title] = true
		}
		for _, p := range sampled[20:] {
			assert.False(t, seen[p.Title], "sampled tail must come from papers[20:]")
		}
	})

	t.Run("exactly fifty papers", func(t *testing.T) {
		sampled := sampleForIntelligence(samplePapers(50))
		assert.Len(t, sampled, 30)
	})
}
