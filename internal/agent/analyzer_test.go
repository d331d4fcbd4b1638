package agent

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerParsesResponse(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{
		"dialogue_message": "I've extracted the core claim: attention is quadratic.",
		"paper_analyses": [
			{"paper_num": 1, "methods": ["sparse attention"], "datasets": ["PG-19"], "limitations": ["short sequences only"]}
		],
		"cross_paper_gaps": [
			{"gap": "All papers test below 16K tokens", "severity": "high", "papers_affected": [1, 2], "why_matters": "Production needs 100K+"}
		]
	}`}}

	result := NewAnalyzer(llm).Run(context.Background(), samplePapers(2), "long context", "")

	assert.Equal(t, 2, result.PapersAnalyzed)
	assert.Equal(t, "I've extracted the core claim: attention is quadratic.", result.DialogueMessage)
	require.Len(t, result.Analysis.PaperAnalyses, 1)
	assert.Equal(t, []string{"sparse attention"}, result.Analysis.PaperAnalyses[0].Methods)
	require.Len(t, result.Analysis.CrossPaperGaps, 1)
	gap := result.Analysis.CrossPaperGaps[0]
	assert.Equal(t, "All papers test below 16K tokens", gap.Gap)
	assert.Equal(t, "high", gap.Severity)
	assert.Equal(t, []int{1, 2}, gap.PapersAffected)
}

func TestAnalyzerCapsPapersAtFive(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"cross_paper_gaps": []}`}}

	result := NewAnalyzer(llm).Run(context.Background(), samplePapers(8), "", "")

	assert.Equal(t, 5, result.PapersAnalyzed)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "PAPER 5:")
	assert.NotContains(t, llm.prompts[0], "PAPER 6:")
}

func TestAnalyzerDialogueFallbackFromGaps(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{
		"cross_paper_gaps": [{"gap": "No benchmark overlap", "why_matters": "Comparisons are meaningless"}]
	}`}}

	result := NewAnalyzer(llm).Run(context.Background(), samplePapers(3), "", "")

	assert.Equal(t,
		"I've extracted the core patterns from 3 papers. Key finding: No benchmark overlap. Limitation: Comparisons are meaningless",
		result.DialogueMessage)
}

func TestAnalyzerCompletionFailure(t *testing.T) {
	llm := &scriptedLLM{err: eris.New("api down")}

	result := NewAnalyzer(llm).Run(context.Background(), samplePapers(2), "", "")

	assert.Empty(t, result.Analysis.CrossPaperGaps)
	assert.NotNil(t, result.Analysis.CrossPaperGaps)
	assert.Equal(t,
		"I've analyzed 2 papers and identified several cross-paper patterns and limitations.",
		result.DialogueMessage)
}

func TestNormalizeAnalysisShapes(t *testing.T) {
	t.Run("bare list becomes paper analyses", func(t *testing.T) {
		out := normalizeAnalysis([]any{
			map[string]any{"paper_num": float64(2), "methods": []any{"distillation"}},
			"not a map",
		})
		require.Len(t, out.PaperAnalyses, 1)
		assert.Equal(t, 2, out.PaperAnalyses[0].PaperNum)
	})

	t.Run("scalar yields empty analysis", func(t *testing.T) {
		out := normalizeAnalysis("garbage")
		assert.NotNil(t, out.PaperAnalyses)
		assert.NotNil(t, out.CrossPaperGaps)
		assert.Empty(t, out.PaperAnalyses)
	})
}

func TestAnalyzerPromptIncludesFieldContext(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{}`}}

	NewAnalyzer(llm).Run(context.Background(), samplePapers(1), "quantum error correction", "Key labs: Google Quantum AI.")

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "quantum error correction")
	assert.Contains(t, llm.prompts[0], "FIELD CONTEXT (Your Domain Knowledge):")
	assert.Contains(t, llm.prompts[0], "Key labs: Google Quantum AI.")
}
