package model

import "time"

// RunStatus tracks a research run through its lifecycle.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunSearching RunStatus = "searching"
	RunAnalyzing RunStatus = "analyzing"
	RunComplete  RunStatus = "complete"
	RunFailed    RunStatus = "failed"
)

// Run is a persisted research run: the request parameters, current status,
// and the result once the pipeline completes.
type Run struct {
	ID        string     `json:"id"`
	Topic     string     `json:"topic"`
	Sources   []string   `json:"sources"`
	NumPapers int        `json:"num_papers"`
	Status    RunStatus  `json:"status"`
	Error     string     `json:"error,omitempty"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult is the full output of one pipeline execution.
type RunResult struct {
	Insights        []Insight           `json:"insights"`
	ConversationLog []ConversationEntry `json:"conversation_log"`
	Intelligence    *Intelligence       `json:"intelligence,omitempty"`
	PapersFound     int                 `json:"papers_found"`
	DurationSecs    float64             `json:"duration"`
}
