package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

func sampleRun() *model.Run {
	return &model.Run{
		ID:        "run-1",
		Topic:     "sparse attention",
		Sources:   []string{"arxiv"},
		NumPapers: 5,
		Status:    model.RunComplete,
		Result: &model.RunResult{
			Insights: []model.Insight{{
				Title:         "Scale Testing Direction",
				SurvivalScore: 8.5,
				Validated:     true,
			}},
			PapersFound:  4,
			DurationSecs: 12.5,
		},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC),
	}
}

func TestWriteRunJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRun(&buf, sampleRun(), "json"))

	assert.Contains(t, buf.String(), `"topic": "sparse attention"`)
	assert.Contains(t, buf.String(), `"papers_found": 4`)
}

func TestWriteRunYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRun(&buf, sampleRun(), "yaml"))

	assert.Contains(t, buf.String(), "topic: sparse attention")
	assert.Contains(t, buf.String(), "papersfound: 4")
}

func TestWriteRunUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeRun(&buf, sampleRun(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
