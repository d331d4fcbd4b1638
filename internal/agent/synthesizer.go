package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OsamaMoftah/AiResearcher/internal/extract"
	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const synthesizerMaxTokens = 4096

// Synthesizer turns gaps and contradictions into research insights with
// experiment designs. It always produces at least one insight: model
// output first, then gap-derived fallbacks, then paper-derived ones.
type Synthesizer struct {
	llm Completer
}

// NewSynthesizer creates the synthesis stage.
func NewSynthesizer(llm Completer) *Synthesizer {
	return &Synthesizer{llm: llm}
}

const synthesizerReasoning = `🎯 5-LAYER REASONING STRUCTURE (REQUIRED):

1. **OBSERVATION**: Extract recurring or contrasting patterns across multiple papers. What do you notice?
2. **HYPOTHESIS**: Abstract these patterns into a testable, conceptual claim. What principle might be at work?
3. **EXPERIMENT**: Design a concrete, feasible study with scientific methodology. What would you test?
4. **EXPECTED INSIGHT**: Predict what principle could emerge. If confirmed, what does this reveal?
5. **VALIDATION**: Check if this space is already occupied (citation-aware reasoning).

Generate insights that read like scientific reasoning, not automation. Each insight should tell a story of discovery.

🔬 EXPERIMENT DESIGN REQUIREMENTS (Scientific Methodology):
When designing an experiment, go beyond scheduling. Think like a scientist:

1. **Identify the variable or mechanism being tested** (independent variable)
2. **Propose control and treatment conditions** (control group)
3. **Include metrics for evaluation** (dependent variables: accuracy, robustness, novelty, etc.)
4. **Anticipate possible outcomes and how they would affect the hypothesis** (branch logic)
5. **Specify deliverables for validation** (plots, metrics, datasets that Validator can use)
6. **Define what success and failure mean** (expected outcome, fallback plan)

Your experiment_design should be a research methodology, not a task list. Include:
- **objective**: Clear statement of what is being tested
- **independent_variable**: What is being manipulated (e.g., diversity regularization weight λ)
- **dependent_variables**: List of metrics being measured (e.g., test accuracy, robustness, calibration error)
- **control_group**: Baseline or comparison condition (e.g., ensemble without diversity regularization)
- **experimental_procedure**: Phases of the experiment (phase1, phase2, phase3, phase4)
- **expected_outcome**: What success looks like and how to interpret results (e.g., correlation >0.6)
- **fallback_plan**: What to do if hypothesis fails or partially holds (e.g., investigate saturation, try contrastive pretraining)
- **deliverables**: List of artifacts for validator (e.g., diversity-robustness correlation plot, λ-sweep performance curve, calibration metrics)
- **week1, week2, week3**: Legacy format for backward compatibility (optional, can be derived from phases)`

const synthesizerExamples = `🌟 EXAMPLES OF CONCEPTUAL REASONING (Few-Shot Learning):

EXAMPLE 1 - Symmetry as a Hidden Regulator:
{
  "title": "Symmetry as a Hidden Regulator in Model Generalization",
  "source_papers": ["Machine Learning Symmetry (Lal et al., 2022)", "Diversity in ML (Gong et al., 2018)"],
  "observation": "Multiple reviewed papers independently leverage structured regularities to improve robustness. These recurring patterns point toward symmetry acting as an implicit stabilizer during training — whether derived from physics, data geometry, or architecture constraints.",
  "hypothesis": "Embedding symmetry constraints directly into neural architectures functions as a natural regularizer, improving generalization under low-data or noisy regimes.",
  "experiment_design": {
    "objective": "Test whether symmetry constraints in neural architectures improve generalization under low-data or noisy regimes compared to unconstrained architectures.",
    "independent_variable": "Symmetry constraint type and strength (group-theoretic constraints, architectural symmetry, data augmentation symmetry)",
    "dependent_variables": ["Generalization error", "Calibration error", "Invariance preservation metrics", "Robustness to noise", "Performance under few-shot conditions"],
    "control_group": "Unconstrained neural architecture with identical architecture but no symmetry constraints",
    "experimental_procedure": {
      "phase1": "Re-implement Lal's group-theoretic network and baseline unconstrained network on CIFAR-10. Establish baseline performance metrics.",
      "phase2": "Train both symmetry-constrained and unconstrained versions under few-shot conditions (10%, 20%, 50% of training data).",
      "phase3": "Evaluate generalization error, calibration, and invariance preservation metrics across both architectures. Test robustness under label noise injection (5%, 10%, 20% noise).",
      "phase4": "Compute correlation between symmetry preservation score and generalization improvement. Analyze which types of symmetry provide the strongest regularization effect."
    },
    "expected_outcome": "If symmetry constraints provide regularization, we expect: (1) generalization error reduction of >5% under few-shot conditions, (2) calibration error improvement of >10%, (3) correlation >0.6 between symmetry preservation and robustness. Success criteria: symmetry-constrained models outperform unconstrained models across at least 2 of 3 evaluation metrics.",
    "fallback_plan": "If no significant improvement is found, investigate: (1) whether symmetry constraints are too weak or too strong (hyperparameter sweep), (2) whether the chosen symmetry groups are relevant for the dataset (try different symmetry groups), (3) whether benefits only appear at larger scale (scale up to ImageNet).",
    "deliverables": ["Generalization error comparison plot (constrained vs unconstrained)", "Calibration error metrics across noise conditions", "Symmetry-robustness correlation analysis", "Invariance preservation heatmap", "Hyperparameter sensitivity analysis"],
    "week1": "Re-implement Lal's group-theoretic network and benchmark on CIFAR-10.",
    "week2": "Train both symmetry-constrained and unconstrained versions under few-shot conditions.",
    "week3": "Compare generalization error, calibration, and invariance preservation metrics."
  },
  "expected_insight": "If confirmed, this could unify two research lines — geometric deep learning and self-supervised regularization — under a common theoretical principle: robust learning as symmetry preservation.",
  "gap": "All papers test on sequences <16K tokens, but production needs 100K+ tokens. Nobody has systematically tested if solutions work at scale.",
  "skeptic_challenge": "Are the claimed speedups real or just artifacts of small-scale benchmarks? Papers report contradictory speedups.",
  "impact": "Long-context LLMs are a $2B market. Current solutions are benchmarked on toy problems. This could enable processing entire codebases, legal documents, and conversation histories at scale.",
  "novelty_score": 8.5,
  "feasibility_score": 8,
  "impact_score": 9
}

EXAMPLE 2 - Latent Diversity Hypothesis:
{
  "title": "The Latent Diversity Hypothesis: Beyond Accuracy Metrics",
  "source_papers": ["Diversity in Machine Learning (Gong et al., 2018)"],
  "observation": "The literature measures 'diversity' in ensembles primarily through output variance or accuracy improvement. However, cross-paper analysis reveals an implicit, unmeasured factor: latent representation diversity — the structural dissimilarity between learned embeddings.",
  "hypothesis": "Optimizing for latent diversity, rather than output diversity, can yield more robust ensemble systems and uncover hidden subspaces of generalization.",
  "experiment_design": {
    "objective": "Test whether optimizing latent representation diversity in ensemble models improves robustness beyond standard accuracy metrics.",
    "independent_variable": "Diversity regularization weight (λ) applied to cosine distance between model embeddings in latent space",
    "dependent_variables": ["Test accuracy under noise injection (robustness)", "Representation similarity (cosine distance between embeddings)", "Calibration error (model confidence alignment)", "Generalization gap (train-test accuracy difference)"],
    "control_group": "Ensemble without latent diversity regularization (standard ensemble training)",
    "experimental_procedure": {
      "phase1": "Reproduce baseline from 'Diversity in ML' on CIFAR-100 using three independent ensemble models. Establish baseline accuracy and robustness metrics.",
      "phase2": "Introduce latent diversity regularization into the loss function: L_total = L_classification + λ * (1 - cosine_similarity(E1, E2)). Tune λ ∈ {0, 0.1, 0.5, 1.0}.",
      "phase3": "Evaluate across data perturbations (label noise: 5%, 10%, 20%; domain shift: CIFAR-100 to CIFAR-10.1). Compare ensemble resilience metrics between regularized and control groups.",
      "phase4": "Compute correlation between latent diversity index (cosine distance) and robustness scores. Analyze which latent layers show strongest diversity-robustness correlation."
    },
    "expected_outcome": "If latent diversity correlates with robustness >0.6 across noise conditions, this supports the hypothesis that diversity in representation space, not just output space, drives generalization. Success criteria: (1) robustness improvement of >3% under noise, (2) correlation >0.6 between diversity index and robustness, (3) calibration error reduction of >5%.",
    "fallback_plan": "If results show no correlation, investigate whether latent dimensions are saturated — may require contrastive pretraining or dimensionality pruning. Alternative: test if diversity needs to be measured at multiple layers, not just final layer. If correlation is weak, explore non-linear diversity measures beyond cosine distance.",
    "deliverables": ["Diversity-robustness correlation plot (latent diversity index vs robustness score)", "λ-sweep performance curve (showing optimal regularization weight)", "Comparative calibration metrics (regularized vs control)", "Layer-wise diversity analysis (which layers matter most)", "Noise robustness comparison table"],
    "week1": "Train ensemble models on standard datasets (CIFAR-100, ImageNet-mini).",
    "week2": "Compute cosine distance between latent layers across models as a new 'representation diversity index'.",
    "week3": "Correlate this index with performance stability across random seeds and data noise."
  },
  "expected_insight": "This may redefine 'diversity' as a representation-level concept — pushing ensemble learning closer to representation theory, not just accuracy heuristics.",
  "gap": "Papers measure diversity through output variance, but ignore latent representation diversity.",
  "skeptic_challenge": "Verify that latent diversity correlates with generalization, not just accuracy improvements.",
  "impact": "Could revolutionize ensemble learning by focusing on representation structure rather than output metrics.",
  "novelty_score": 9,
  "feasibility_score": 7,
  "impact_score": 8.5
}

EXAMPLE 3 - Open-Environment Learning:
{
  "title": "Open-Environment Learning: Toward Adaptive Context Awareness",
  "source_papers": ["Open-environment Machine Learning (Zhou, 2022)"],
  "observation": "Most ML systems fail when environmental variables shift outside training conditions. Yet reviewed models often 'freeze' their context assumptions, lacking mechanisms for real-time context sensing.",
  "hypothesis": "An adaptive environment module that infers latent context shifts (e.g., via embedding drift detection) can serve as a universal plug-in for context-aware ML.",
  "experiment_design": {
    "objective": "Test whether an adaptive environment module using embedding drift detection improves model resilience to open-world environmental shifts compared to static models.",
    "independent_variable": "Environment adaptation mechanism (embedding drift threshold, adaptation rate, context detection sensitivity)",
    "dependent_variables": ["Prediction accuracy under domain shift", "Prediction entropy (uncertainty calibration)", "Calibration error (confidence alignment)", "Adaptation latency (time to detect and adapt to shift)", "False positive rate (incorrect shift detection)"],
    "control_group": "Standard image classification model without environment adaptation module (frozen context assumptions)",
    "experimental_procedure": {
      "phase1": "Integrate embedding drift metrics into standard image classification pipeline (ResNet-50 on ImageNet). Establish baseline performance and drift detection thresholds.",
      "phase2": "Simulate open-world shifts: (a) domain changes (ImageNet to ImageNet-C with corruption), (b) unseen categories (train on 800 classes, test on 200 unseen), (c) temporal drift (simulated data distribution shift over time).",
      "phase3": "Measure resilience via prediction entropy, calibration performance, and adaptation speed. Compare adaptive module vs control across all shift scenarios.",
      "phase4": "Analyze false positive rate of shift detection. Optimize drift threshold to minimize false alarms while maintaining sensitivity. Evaluate trade-off between adaptation speed and accuracy."
    },
    "expected_outcome": "If adaptive module improves resilience, we expect: (1) accuracy improvement of >5% under domain shift, (2) calibration error reduction of >10%, (3) prediction entropy increase (better uncertainty quantification) when shift is detected, (4) adaptation latency <100ms. Success criteria: adaptive model outperforms control on at least 2 of 3 shift scenarios with <5% false positive rate.",
    "fallback_plan": "If no improvement is found, investigate: (1) whether drift detection is too sensitive or not sensitive enough (threshold tuning), (2) whether adaptation mechanism is too slow (optimize detection algorithm), (3) whether the module needs domain-specific calibration (train separate detectors per domain type). If adaptation causes performance degradation, explore conservative adaptation (only adapt when confidence is high).",
    "deliverables": ["Domain shift accuracy comparison (adaptive vs control)", "Embedding drift detection timeline plot", "Calibration error metrics across shift scenarios", "False positive rate analysis", "Adaptation latency vs accuracy trade-off curve"],
    "week1": "Integrate embedding drift metrics into standard image classification pipeline.",
    "week2": "Simulate open-world shifts (domain changes, unseen categories).",
    "week3": "Measure resilience via prediction entropy and calibration performance."
  },
  "expected_insight": "This could bridge a gap between domain adaptation and open-world learning — shifting ML from static generalization toward dynamic environmental adaptation.",
  "gap": "Models fail when environmental variables shift, but lack mechanisms for real-time context sensing.",
  "skeptic_challenge": "Verify that embedding drift detection actually improves performance in open-world scenarios.",
  "impact": "Could enable ML systems that adapt to changing environments in real-time, crucial for deployment.",
  "novelty_score": 8,
  "feasibility_score": 9,
  "impact_score": 9.5
}`

const synthesizerTask = `🎯 YOUR TASK:

Generate 3 insights following this 5-layer structure. Each insight must have:
- **title**: Complete, descriptive title (NO truncation, NO trailing "...")
- **observation**: What patterns do you see across papers?
- **hypothesis**: What testable claim can you make?
- **experiment_design**: Scientific experiment design with objective, variables, controls, procedures, expected outcome, fallback plan, and deliverables (see structure above)
- **expected_insight**: What principle could emerge?
- **gap**: The research gap (for backward compatibility)
- **skeptic_challenge**: What challenges might arise?
- **impact**: Why does this matter?
- **novelty_score**, **feasibility_score**, **impact_score**: 0-10 each

Think conceptually, not procedurally. Write like a scientist reasoning through a discovery, not like an automation tool.

IMPORTANT:
- Generate COMPLETE titles - never truncate or add "..." to titles
- experiment_design must include scientific methodology (objective, variables, controls, phases, deliverables) - not just week1/week2/week3 task lists
- Include branch logic (what if hypothesis fails?) in fallback_plan
- Specify deliverables that Validator agent can use for evaluation

IMPORTANT: Also generate a DIALOGUE MESSAGE as if you're speaking at a research roundtable.
Format: "That's interesting — I recall that [connection]. Maybe [hypothesis]. Hypothesis: [testable claim]."

Return JSON with two parts:
1. A "dialogue_messages" array with one dialogue message per insight (3 total)
2. The insights array as before

{
  "dialogue_messages": [
    "That's interesting — I recall that [connection]. Maybe [hypothesis]. Hypothesis: [testable claim].",
    ...
  ],
  "insights": [
    {...},
    {...},
    {...}
  ]
}

OR if you prefer, return just the insights array and we'll generate dialogue messages from them.
Return ONLY valid JSON.`

func synthesizerPrompt(papers []model.Paper, gaps []model.Gap, contradictions []model.Contradiction, fieldContext string) string {
	var gapsText strings.Builder
	for i, g := range gaps {
		if i >= 5 {
			break
		}
		if i > 0 {
			gapsText.WriteString("\n")
		}
		fmt.Fprintf(&gapsText, "- %s: %s", g.Gap, g.WhyMatters)
	}

	var contradictionsText strings.Builder
	for i, c := range contradictions {
		if i >= 3 {
			break
		}
		if i > 0 {
			contradictionsText.WriteString("\n")
		}
		fmt.Fprintf(&contradictionsText, "- Papers %s: %s", intsToDisplay(c.Papers), c.Contradiction)
	}

	var titles strings.Builder
	for i, p := range papers {
		if i > 0 {
			titles.WriteString("\n")
		}
		fmt.Fprintf(&titles, "%d. %s", i+1, p.Title)
	}

	fs := fieldSection(fieldContext, `- Reference known research directions and important authors
- Cite important conferences and trends
- Propose experiments that build on established work
- Identify opportunities that align with field evolution`)

	var b strings.Builder
	fmt.Fprintf(&b, `You are Dr. Alex Rivera, a world-class research strategist at MIT with 18 years of experience.
Your personality: Creative - You see connections others miss and generate brilliant research ideas.
You've published in top venues and know what makes research impactful.

Your job is to generate research insights using CONCEPTUAL REASONING, not procedural templates.
Think like a scientist: extract patterns, form hypotheses, design experiments, predict insights, validate.

%s
PAPERS ANALYZED:
%s

GAPS IDENTIFIED:
%s

CONTRADICTIONS FOUND:
%s

`, fs, titles.String(), gapsText.String(), contradictionsText.String())
	b.WriteString(synthesizerReasoning)
	b.WriteString("\n\n")
	b.WriteString(synthesizerExamples)
	b.WriteString("\n\n")
	b.WriteString(synthesizerTask)
	return b.String()
}

// Run synthesizes insights from the analysis and critique. Never returns
// an empty slice when papers or gaps exist: fallback chains guarantee
// output.
func (s *Synthesizer) Run(ctx context.Context, papers []model.Paper, analyzer AnalyzerResult, skeptic SkepticResult, topic, fieldContext string) ([]model.Insight, float64) {
	start := time.Now()
	capped := capPapers(papers, stagePaperCap)
	gaps := analyzer.Analysis.CrossPaperGaps

	zap.L().Info("synthesizer: generating insights",
		zap.Int("gaps", len(gaps)),
		zap.Int("contradictions", len(skeptic.Critique.Contradictions)),
	)

	text, err := s.llm.Complete(ctx,
		synthesizerPrompt(capped, gaps, skeptic.Critique.Contradictions, fieldContext),
		synthesizerMaxTokens)
	if err != nil {
		zap.L().Warn("synthesizer: completion failed", zap.Error(err))
	}

	insights, dialogues := parseSynthesizerResponse(extract.JSON(text))

	if len(insights) == 0 {
		zap.L().Warn("synthesizer: no insights parsed, using gap fallback")
		insights = gapFallbackInsights(gaps)
	}
	if len(insights) == 0 {
		zap.L().Warn("synthesizer: no gaps available, using paper fallback")
		insights = paperFallbackInsights(capped)
	}

	for i := range insights {
		if insights[i].Title == "" {
			insights[i].Title = fmt.Sprintf("Research Insight %d", i+1)
		}
	}

	// Regenerate dialogue messages unless the model supplied exactly one
	// per insight.
	if len(dialogues) != len(insights) {
		dialogues = make([]string, len(insights))
		for i, in := range insights {
			if in.Hypothesis != "" {
				dialogues[i] = fmt.Sprintf("That's interesting — I recall that %s. Maybe %s.",
					orDefault(clip(in.Observation, 100), "there are patterns here"),
					clip(in.Hypothesis, 150))
			} else {
				dialogues[i] = fmt.Sprintf("I see an opportunity here. %s This could be worth exploring.",
					clip(in.Gap, 150))
			}
		}
	}
	for i := range insights {
		insights[i].DialogueMessage = dialogues[i]
	}

	return insights, time.Since(start).Seconds()
}

// parseSynthesizerResponse accepts both the dialogue_messages envelope and
// a bare insights array. String items are promoted to minimal insights.
func parseSynthesizerResponse(v any) ([]model.Insight, []string) {
	var items []any
	var dialogues []string

	switch val := v.(type) {
	case map[string]any:
		items = extract.List(val["insights"])
		dialogues = extract.Strings(val["dialogue_messages"])
	case []any:
		items = val
	}

	var insights []model.Insight
	for _, item := range items {
		switch it := item.(type) {
		case map[string]any:
			insights = append(insights, parseInsight(it))
		case string:
			insights = append(insights, model.Insight{
				Title:            clip(it, 100),
				Observation:      it,
				Gap:              it,
				NoveltyScore:     5,
				FeasibilityScore: 5,
				ImpactScore:      5,
			})
		}
	}
	return insights, dialogues
}

func parseInsight(m map[string]any) model.Insight {
	return model.Insight{
		Title:            extract.Str(m["title"]),
		SourcePapers:     extract.Strings(m["source_papers"]),
		Observation:      extract.Str(m["observation"]),
		Hypothesis:       extract.Str(m["hypothesis"]),
		ExpectedInsight:  extract.Str(m["expected_insight"]),
		Gap:              extract.Str(m["gap"]),
		SkepticChallenge: extract.Str(m["skeptic_challenge"]),
		Impact:           extract.Str(m["impact"]),
		ExperimentDesign: parseExperimentDesign(m["experiment_design"]),
		NoveltyScore:     extract.Num(m["novelty_score"]),
		FeasibilityScore: extract.Num(m["feasibility_score"]),
		ImpactScore:      extract.Num(m["impact_score"]),
	}
}

// parseExperimentDesign reads both the scientific-methodology shape and
// the legacy week fields. Procedure phases come back as an object, so
// they are sorted by phase name to restore phase1..phaseN order.
func parseExperimentDesign(v any) model.ExperimentDesign {
	m := extract.Map(v)
	if m == nil {
		return model.ExperimentDesign{}
	}

	d := model.ExperimentDesign{
		Objective:           extract.Str(m["objective"]),
		IndependentVariable: extract.Str(m["independent_variable"]),
		DependentVariables:  extract.Strings(m["dependent_variables"]),
		ControlGroup:        extract.Str(m["control_group"]),
		ExpectedOutcome:     extract.Str(m["expected_outcome"]),
		FallbackPlan:        extract.Str(m["fallback_plan"]),
		Deliverables:        extract.Strings(m["deliverables"]),
		Week1:               extract.Str(m["week1"]),
		Week2:               extract.Str(m["week2"]),
		Week3:               extract.Str(m["week3"]),
	}

	if proc := extract.Map(m["experimental_procedure"]); proc != nil {
		names := make([]string, 0, len(proc))
		for name := range proc {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d.Procedure = append(d.Procedure, model.ProcedurePhase{
				Name:        name,
				Description: extract.Str(proc[name]),
			})
		}
	}
	return d
}

// gapFallbackInsights derives insights from the analyzer's top gaps when
// the model produced nothing usable. This is the only path that appends
// "..." to a title.
func gapFallbackInsights(gaps []model.Gap) []model.Insight {
	var insights []model.Insight
	for i, gap := range gaps {
		if i >= 3 {
			break
		}
		gapText := orDefault(gap.Gap, "Gap not specified")

		words := strings.Fields(gapText)
		titlePhrase := strings.Join(words, " ")
		if len(words) > 10 {
			titlePhrase = strings.Join(words[:10], " ") + "..."
		}
		title := fmt.Sprintf("Research Direction %d: %s", i+1, titlePhrase)
		if titlePhrase == "" {
			title = fmt.Sprintf("Research Direction %d: Addressing Identified Research Gap", i+1)
		}

		insights = append(insights, model.Insight{
			Title:       title,
			Observation: fmt.Sprintf("Multiple papers reveal a pattern: %s", gapText),
			Hypothesis: fmt.Sprintf("If addressed systematically, this could reveal important insights about %s",
				orDefault(gap.WhyMatters, "the research area")),
			ExperimentDesign: model.ExperimentDesign{
				Week1: "Conduct comprehensive literature review to validate the gap",
				Week2: "Design and implement baseline approach addressing the gap",
				Week3: "Evaluate results and compare with existing methods",
			},
			ExpectedInsight:  "This could provide new understanding of the underlying mechanisms and improve current approaches.",
			Gap:              gapText,
			SkepticChallenge: "Verify this gap exists through systematic literature review",
			Impact:           orDefault(gap.WhyMatters, "Addresses identified limitation in current research"),
			NoveltyScore:     7,
			FeasibilityScore: 8,
			ImpactScore:      7,
		})
	}
	return insights
}

// paperFallbackInsights proposes extensions of the top papers when even
// the gap fallback produced nothing.
func paperFallbackInsights(papers []model.Paper) []model.Insight {
	var insights []model.Insight
	for i, paper := range papers {
		if i >= 3 {
			break
		}
		paperTitle := orDefault(paper.Title, "Research Paper")

		title := fmt.Sprintf("Extension of %s", paperTitle)
		if len(paperTitle) > 80 {
			title = fmt.Sprintf("Extension and Generalization of %s", paperTitle)
		}

		insights = append(insights, model.Insight{
			Title:       title,
			Observation: fmt.Sprintf("'%s' presents promising results, but was tested on limited domains or datasets.", paper.Title),
			Hypothesis:  "Extending this approach to new domains or datasets could reveal generalizability patterns and uncover domain-specific adaptations needed.",
			ExperimentDesign: model.ExperimentDesign{
				Week1: fmt.Sprintf("Reproduce key results from '%s' on baseline dataset", paper.Title),
				Week2: "Adapt the approach to a new domain or dataset not covered in the original paper",
				Week3: "Evaluate performance and document gaps or improvements compared to original",
			},
			ExpectedInsight: "This could reveal whether the method generalizes across domains or requires domain-specific adaptations.",
			Gap: fmt.Sprintf("While '%s' presents promising results, there are opportunities to extend this work to different domains, datasets, or problem settings that weren't explored in the original paper.",
				paper.Title),
			SkepticChallenge: "Verify that these extensions haven't already been explored in subsequent work. Check for follow-up papers and related research.",
			Impact:           "Building on proven methods with novel applications can yield practical research contributions and help validate the generalizability of the original approach.",
			NoveltyScore:     6,
			FeasibilityScore: 9,
			ImpactScore:      7,
		})
	}
	return insights
}
