package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const (
	// largeSetThreshold triggers sampled intelligence analysis.
	largeSetThreshold = 50
	// intelligencePaperCap bounds the sampled set.
	intelligencePaperCap = 30
)

// Pipeline runs the four stages in order and records a conversation log.
// Temporal trends and author stats always see the full paper set; the
// dialogue stages see the first five papers.
type Pipeline struct {
	analyzer     *Analyzer
	skeptic      *Skeptic
	synthesizer  *Synthesizer
	validator    *Validator
	intelligence *Intelligence

	// withIntelligence gates field context generation. Disabled runs use
	// empty context everywhere.
	withIntelligence bool
}

// NewPipeline wires the stages around a shared completer and the
// validation searcher.
func NewPipeline(llm Completer, searcher Searcher, withIntelligence bool) *Pipeline {
	return &Pipeline{
		analyzer:         NewAnalyzer(llm),
		skeptic:          NewSkeptic(llm),
		synthesizer:      NewSynthesizer(llm),
		validator:        NewValidator(llm, searcher),
		intelligence:     NewIntelligence(llm),
		withIntelligence: withIntelligence,
	}
}

// GenerateInsights runs the full pipeline over the papers. The only error
// is an empty paper set; every stage failure inside the run degrades to
// that stage's documented fallback.
func (p *Pipeline) GenerateInsights(ctx context.Context, papers []model.Paper, topic string) (*model.RunResult, error) {
	if len(papers) == 0 {
		return nil, eris.New("pipeline: no papers to analyze")
	}

	start := time.Now()
	zap.L().Info("pipeline: starting",
		zap.Int("papers", len(papers)),
		zap.String("topic", topic),
	)

	log := make([]model.ConversationEntry, 0, 4)
	papersForAgents := capPapers(papers, stagePaperCap)

	fieldContext, intel := p.gatherIntelligence(ctx, papers, topic)

	// Turn 1: Analyzer.
	analyzerResult := p.analyzer.Run(ctx, papersForAgents, topic, fieldContext)
	gaps := analyzerResult.Analysis.CrossPaperGaps

	analyzerThinking := []string{
		fmt.Sprintf("Analyzed %d papers (from %d total)", analyzerResult.PapersAnalyzed, len(papers)),
		fmt.Sprintf("Identified %d cross-paper patterns", len(gaps)),
	}
	if len(gaps) > 0 {
		analyzerThinking = append(analyzerThinking, fmt.Sprintf("Most severe gap: %s...", clip(gaps[0].Gap, 80)))
	} else {
		analyzerThinking = append(analyzerThinking, "No major gaps found")
	}

	analysis := analyzerResult.Analysis
	log = append(log, model.ConversationEntry{
		Turn:            1,
		Agent:           model.AgentAnalyzer,
		RespondingTo:    []string{},
		MessageType:     model.MessageObservation,
		DialogueMessage: analyzerResult.DialogueMessage,
		Action:          "Analyzed papers and extracted limitations",
		DurationSecs:    analyzerResult.DurationSecs,
		OutputSummary:   fmt.Sprintf("Found %d cross-paper gaps", len(gaps)),
		Thinking:        analyzerThinking,
		KeyFindings:     gapFindings(gaps),
		Analysis:        &analysis,
	})

	// Turn 2: Skeptic.
	skepticResult := p.skeptic.Run(ctx, papersForAgents, analyzerResult, topic, fieldContext)
	critique := skepticResult.Critique

	skepticThinking := []string{
		fmt.Sprintf("Challenged %d identified gaps", len(gaps)),
		fmt.Sprintf("Found %d direct contradictions between papers", len(critique.Contradictions)),
		fmt.Sprintf("Suggested %d potential contradictions from field knowledge", len(critique.PotentialContradictions)),
	}
	if critique.FieldInsights != "" {
		skepticThinking = append(skepticThinking, fmt.Sprintf("Field insights: %s...", clip(critique.FieldInsights, 100)))
	}
	if critique.Interpretation != "" {
		skepticThinking = append(skepticThinking, fmt.Sprintf("Interpretation: %s...", clip(critique.Interpretation, 100)))
	}
	if len(critique.Contradictions) == 0 && len(critique.PotentialContradictions) == 0 {
		skepticThinking = append(skepticThinking, "No direct contradictions found - provided field analysis and potential contradictions instead")
	}

	skepticSummary := fmt.Sprintf("Found %d contradictions, %d potential contradictions",
		len(critique.Contradictions), len(critique.PotentialContradictions))
	if critique.FieldInsights != "" {
		skepticSummary += " | Field insights provided"
	}

	log = append(log, model.ConversationEntry{
		Turn:                         2,
		Agent:                        model.AgentSkeptic,
		RespondingTo:                 []string{model.AgentAnalyzer},
		MessageType:                  model.MessageChallenge,
		DialogueMessage:              skepticResult.DialogueMessage,
		Action:                       "Challenged assumptions and found contradictions",
		DurationSecs:                 skepticResult.DurationSecs,
		OutputSummary:                skepticSummary,
		Thinking:                     skepticThinking,
		KeyFindings:                  skepticFindings(critique),
		Contradictions:               critique.Contradictions,
		PotentialContradictions:      critique.PotentialContradictions,
		FieldInsights:                critique.FieldInsights,
		FieldKnowledgeContradictions: critique.FieldKnowledgeContradictions,
		Interpretation:               critique.Interpretation,
	})

	// Turn 3: Synthesizer.
	insights, synthesizerDuration := p.synthesizer.Run(ctx, papersForAgents, analyzerResult, skepticResult, topic, fieldContext)

	avgNovelty := 0.0
	for _, in := range insights {
		avgNovelty += in.NoveltyScore
	}
	if len(insights) > 0 {
		avgNovelty /= float64(len(insights))
	}

	synthesizerThinking := []string{
		fmt.Sprintf("Synthesized %d research opportunities from gaps and contradictions", len(insights)),
		fmt.Sprintf("Average novelty score: %.1f/10", avgNovelty),
	}
	if len(insights) > 0 {
		synthesizerThinking = append(synthesizerThinking, fmt.Sprintf("Top insight: %s...", clip(insights[0].Title, 80)))
	} else {
		synthesizerThinking = append(synthesizerThinking, "No insights generated")
	}

	synthesizerDialogue := ""
	for _, in := range insights {
		if in.DialogueMessage != "" {
			synthesizerDialogue = in.DialogueMessage
			break
		}
	}
	if synthesizerDialogue == "" {
		synthesizerDialogue = fmt.Sprintf(
			"I see opportunities here. Based on the analysis and challenges, I've synthesized %d research directions.",
			len(insights))
	}

	log = append(log, model.ConversationEntry{
		Turn:            3,
		Agent:           model.AgentSynthesizer,
		RespondingTo:    []string{model.AgentAnalyzer, model.AgentSkeptic},
		MessageType:     model.MessageSynthesis,
		DialogueMessage: synthesizerDialogue,
		Action:          "Generated research opportunities with experiment designs",
		DurationSecs:    synthesizerDuration,
		OutputSummary:   fmt.Sprintf("Generated %d actionable insights", len(insights)),
		Thinking:        synthesizerThinking,
		KeyFindings:     noveltyFindings(insights),
		Insights:        insights,
	})

	// Turn 4: Validator.
	validatedTopic := orDefault(topic, "research")
	validated, _, validatorDuration := p.validator.Run(ctx, insights, validatedTopic, fieldContext)

	survived := 0
	for _, in := range validated {
		if in.Validated {
			survived++
		}
	}
	rejected := len(insights) - len(validated)

	validatorThinking := []string{
		fmt.Sprintf("Validated %d insights by searching arXiv for contradicting work", len(insights)),
		fmt.Sprintf("%d insights survived validation", survived),
		fmt.Sprintf("%d insights rejected as already solved or invalid", rejected),
	}
	if len(validated) > 0 {
		avgSurvival := 0.0
		for _, in := range validated {
			avgSurvival += in.SurvivalScore
		}
		avgSurvival /= float64(len(validated))
		validatorThinking = append(validatorThinking, fmt.Sprintf("Average survival score: %.1f/10", avgSurvival))
	} else {
		validatorThinking = append(validatorThinking, "No insights survived")
	}

	validatorDialogue := ""
	for _, in := range validated {
		if in.ValidationDialogue != "" {
			validatorDialogue = in.ValidationDialogue
			break
		}
	}
	if validatorDialogue == "" {
		validatorDialogue = fmt.Sprintf(
			"Quick check: scanning recent literature. %d insights validated, %d rejected. → Validation complete.",
			survived, rejected)
	}

	log = append(log, model.ConversationEntry{
		Turn:              4,
		Agent:             model.AgentValidator,
		RespondingTo:      []string{model.AgentSynthesizer},
		MessageType:       model.MessageValidation,
		DialogueMessage:   validatorDialogue,
		Action:            "Validated insights against prior work",
		DurationSecs:      validatorDuration,
		OutputSummary:     fmt.Sprintf("%d survived | %d rejected", survived, rejected),
		Thinking:          validatorThinking,
		KeyFindings:       survivalFindings(validated),
		ValidatedInsights: validated,
	})

	duration := time.Since(start).Seconds()
	zap.L().Info("pipeline: complete",
		zap.Int("insights", len(validated)),
		zap.Float64("duration_secs", duration),
	)

	return &model.RunResult{
		Insights:        validated,
		ConversationLog: log,
		Intelligence:    intel,
		PapersFound:     len(papers),
		DurationSecs:    duration,
	}, nil
}

// gatherIntelligence produces the field context and intelligence payload.
// Disabled, topic-less, or failed intelligence yields empty context so the
// stages fall back to topic-only prompts.
func (p *Pipeline) gatherIntelligence(ctx context.Context, papers []model.Paper, topic string) (string, *model.Intelligence) {
	if !p.withIntelligence || topic == "" {
		return "", nil
	}

	sampled := sampleForIntelligence(papers)
	zap.L().Info("pipeline: gathering field intelligence",
		zap.Int("sampled", len(sampled)),
		zap.Int("total", len(papers)),
	)

	fieldContext := p.intelligence.GenerateFieldContext(ctx, topic)

	return fieldContext, &model.Intelligence{
		FieldContext:            fieldContext,
		Themes:                  p.intelligence.ExtractResearchThemes(ctx, sampled, topic),
		MethodologyCombinations: p.intelligence.AnalyzeMethodologyCombinations(ctx, sampled),
		TemporalTrends:          p.intelligence.AnalyzeTemporalTrends(ctx, papers),
		TopAuthors:              p.intelligence.TopAuthors(papers),
	}
}

// sampleForIntelligence keeps the first 20 papers and up to 10 random
// later ones once the set reaches 50, capped at 30. Smaller sets pass
// through untouched.
func sampleForIntelligence(papers []model.Paper) []model.Paper {
	if len(papers) < largeSetThreshold {
		return papers
	}

	sampled := make([]model.Paper, 0, intelligencePaperCap)
	sampled = append(sampled, papers[:20]...)
	if len(papers) > 30 {
		extra := rand.Perm(len(papers) - 20)
		n := min(10, len(papers)-20)
		for _, idx := range extra[:n] {
			sampled = append(sampled, papers[20+idx])
		}
	}
	return capPapers(sampled, intelligencePaperCap)
}

func gapFindings(gaps []model.Gap) []any {
	findings := []any{}
	for i, g := range gaps {
		if i == 2 {
			break
		}
		findings = append(findings, g)
	}
	return findings
}

func skepticFindings(c model.Critique) []any {
	if len(c.Contradictions) > 0 {
		findings := []any{}
		for i, item := range c.Contradictions {
			if i == 2 {
				break
			}
			findings = append(findings, item)
		}
		return findings
	}
	if len(c.PotentialContradictions) > 0 {
		findings := []any{}
		for i, item := range c.PotentialContradictions {
			if i == 2 {
				break
			}
			findings = append(findings, item)
		}
		return findings
	}
	if c.FieldInsights != "" {
		return []any{map[string]any{"field_insights": clip(c.FieldInsights, 150)}}
	}
	return []any{}
}

func noveltyFindings(insights []model.Insight) []any {
	findings := []any{}
	for i, in := range insights {
		if i == 2 {
			break
		}
		findings = append(findings, map[string]any{
			"title":   orDefault(in.Title, "Untitled"),
			"novelty": in.NoveltyScore,
		})
	}
	return findings
}

func survivalFindings(insights []model.Insight) []any {
	findings := []any{}
	for i, in := range insights {
		if i == 2 {
			break
		}
		findings = append(findings, map[string]any{
			"title":          orDefault(in.Title, "Untitled"),
			"survival_score": in.SurvivalScore,
		})
	}
	return findings
}
