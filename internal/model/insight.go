package model

// Gap is a cross-paper research limitation identified by the analyzer stage.
type Gap struct {
	Gap            string `json:"gap"`
	Severity       string `json:"severity,omitempty"`
	PapersAffected []int  `json:"papers_affected,omitempty"`
	WhyMatters     string `json:"why_matters,omitempty"`
}

// PaperAnalysis is the per-paper extraction produced by the analyzer stage.
type PaperAnalysis struct {
	PaperNum    int      `json:"paper_num,omitempty"`
	Methods     []string `json:"methods,omitempty"`
	Datasets    []string `json:"datasets,omitempty"`
	Limitations []string `json:"limitations,omitempty"`
}

// Analysis is the normalized analyzer stage output.
type Analysis struct {
	DialogueMessage string          `json:"dialogue_message,omitempty"`
	PaperAnalyses   []PaperAnalysis `json:"paper_analyses"`
	CrossPaperGaps  []Gap           `json:"cross_paper_gaps"`
}

// Contradiction is a direct conflict between two or more papers.
type Contradiction struct {
	Papers        []int  `json:"papers,omitempty"`
	Contradiction string `json:"contradiction"`
	Evidence      string `json:"evidence,omitempty"`
}

// PotentialContradiction is a conflict suggested by field knowledge rather
// than by the papers themselves.
type PotentialContradiction struct {
	Description            string `json:"description"`
	FieldEvidence          string `json:"field_evidence,omitempty"`
	SuggestedInvestigation string `json:"suggested_investigation,omitempty"`
}

// ChallengedGap records the skeptic's challenge to an analyzer gap.
type ChallengedGap struct {
	Gap       string `json:"gap"`
	Challenge string `json:"challenge,omitempty"`
	Severity  string `json:"severity,omitempty"`
}

// Critique is the normalized skeptic stage output. FieldInsights and
// Interpretation are always non-empty after normalization.
type Critique struct {
	DialogueMessage              string                   `json:"dialogue_message,omitempty"`
	Contradictions               []Contradiction          `json:"contradictions"`
	PotentialContradictions      []PotentialContradiction `json:"potential_contradictions"`
	ChallengedGaps               []ChallengedGap          `json:"challenged_gaps"`
	MissingAnalysis              []string                 `json:"missing_analysis"`
	FieldInsights                string                   `json:"field_insights"`
	Interpretation               string                   `json:"interpretation"`
	FieldKnowledgeContradictions string                   `json:"field_knowledge_contradictions"`
}

// ProcedurePhase is one named phase of an experimental procedure, kept as an
// ordered slice because JSON object key order is not preserved.
type ProcedurePhase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExperimentDesign holds either the scientific-methodology shape, the legacy
// week1-week3 shape, or both. The scientific shape takes display precedence.
type ExperimentDesign struct {
	Objective           string           `json:"objective,omitempty"`
	IndependentVariable string           `json:"independent_variable,omitempty"`
	DependentVariables  []string         `json:"dependent_variables,omitempty"`
	ControlGroup        string           `json:"control_group,omitempty"`
	Procedure           []ProcedurePhase `json:"experimental_procedure,omitempty"`
	ExpectedOutcome     string           `json:"expected_outcome,omitempty"`
	FallbackPlan        string           `json:"fallback_plan,omitempty"`
	Deliverables        []string         `json:"deliverables,omitempty"`

	Week1 string `json:"week1,omitempty"`
	Week2 string `json:"week2,omitempty"`
	Week3 string `json:"week3,omitempty"`
}

// IsZero reports whether no design fields are populated at all.
func (d ExperimentDesign) IsZero() bool {
	return d.Objective == "" && d.IndependentVariable == "" &&
		len(d.DependentVariables) == 0 && d.ControlGroup == "" &&
		len(d.Procedure) == 0 && d.ExpectedOutcome == "" &&
		d.FallbackPlan == "" && len(d.Deliverables) == 0 &&
		d.Week1 == "" && d.Week2 == "" && d.Week3 == ""
}

// DesignScores holds the validator's per-criterion experiment design scores.
type DesignScores struct {
	Completeness    float64 `json:"completeness"`
	Reproducibility float64 `json:"reproducibility"`
	Informativeness float64 `json:"informativeness"`
	BranchLogic     float64 `json:"branch_logic"`
}

// Insight is the central record of the pipeline: synthesized by the
// synthesizer stage and mutated in place by the validator. Titles are never
// truncated outside the synthesizer's documented fallback path.
type Insight struct {
	Title            string           `json:"title"`
	SourcePapers     []string         `json:"source_papers,omitempty"`
	Observation      string           `json:"observation"`
	Hypothesis       string           `json:"hypothesis"`
	ExpectedInsight  string           `json:"expected_insight,omitempty"`
	Gap              string           `json:"gap"`
	SkepticChallenge string           `json:"skeptic_challenge,omitempty"`
	Impact           string           `json:"impact,omitempty"`
	ExperimentDesign ExperimentDesign `json:"experiment_design"`
	NoveltyScore     float64          `json:"novelty_score"`
	FeasibilityScore float64          `json:"feasibility_score"`
	ImpactScore      float64          `json:"impact_score"`
	DialogueMessage  string           `json:"dialogue_message,omitempty"`

	// Validation fields, set by the validator stage.
	Validated          bool          `json:"validated"`
	SurvivalScore      float64       `json:"survival_score"`
	ValidationEvidence string        `json:"validation_evidence,omitempty"`
	ValidationDialogue string        `json:"validation_dialogue,omitempty"`
	RelatedWork        []string      `json:"related_work,omitempty"`
	ValidationComment  string        `json:"validation_comment,omitempty"`
	DesignQuality      float64       `json:"experiment_design_quality,omitempty"`
	DesignFeedback     string        `json:"experiment_design_feedback,omitempty"`
	DesignScores       *DesignScores `json:"experiment_design_scores,omitempty"`
}
