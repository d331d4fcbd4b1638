package agent

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

// scriptedLLM replays canned completions in order and records prompts.
type scriptedLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedLLM) Complete(_ context.Context, prompt string, _ int64) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

// stubSearcher returns fixed papers for every validation query.
type stubSearcher struct {
	papers  []model.Paper
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) ([]model.Paper, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, eris.New("search down")
	}
	return s.papers, nil
}

func samplePapers(n int) []model.Paper {
	papers := make([]model.Paper, n)
	for i := range papers {
		papers[i] = model.Paper{
			Title:    fmt.Sprintf("Paper %d on sparse attention", i+1),
			Abstract: fmt.Sprintf("Abstract %d about efficient transformers and long context windows.", i+1),
			Authors:  []string{fmt.Sprintf("Author %d", i+1)},
			Year:     2024,
		}
	}
	return papers
}
