package model

// Message types recorded on conversation entries, one per pipeline stage.
const (
	MessageObservation = "observation"
	MessageChallenge   = "challenge"
	MessageSynthesis   = "synthesis"
	MessageValidation  = "validation"
)

// Agent display names used throughout the conversation log.
const (
	AgentAnalyzer    = "Analyzer"
	AgentSkeptic     = "Skeptic"
	AgentSynthesizer = "Synthesizer"
	AgentValidator   = "Validator"
)

// ConversationEntry is one turn of the four-agent dialogue. Turns are indexed
// 1..4 and RespondingTo lists the agents whose output this turn consumed.
type ConversationEntry struct {
	Turn            int      `json:"turn"`
	Agent           string   `json:"agent"`
	RespondingTo    []string `json:"responding_to"`
	MessageType     string   `json:"message_type"`
	DialogueMessage string   `json:"dialogue_message"`
	Action          string   `json:"action"`
	DurationSecs    float64  `json:"duration"`
	OutputSummary   string   `json:"output_summary"`
	Thinking        []string `json:"thinking,omitempty"`
	KeyFindings     []any    `json:"key_findings,omitempty"`

	// Stage payloads. Exactly one group is set per entry.
	Analysis                     *Analysis                `json:"analysis_details,omitempty"`
	Contradictions               []Contradiction          `json:"contradictions,omitempty"`
	PotentialContradictions      []PotentialContradiction `json:"potential_contradictions,omitempty"`
	FieldInsights                string                   `json:"field_insights,omitempty"`
	FieldKnowledgeContradictions string                   `json:"field_knowledge_contradictions,omitempty"`
	Interpretation               string                   `json:"interpretation,omitempty"`
	Insights                     []Insight                `json:"insights,omitempty"`
	ValidatedInsights            []Insight                `json:"validated_insights,omitempty"`
}
