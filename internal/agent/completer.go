// Package agent implements the four-stage insight pipeline: Analyzer,
// Skeptic, Synthesizer, Validator. Stages call the model through a shared
// Completer and normalize whatever comes back, so a malformed completion
// degrades to documented defaults instead of failing the run.
package agent

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/resilience"
	"github.com/OsamaMoftah/AiResearcher/pkg/anthropic"
)

// Completer produces a text completion for a prompt within a token budget.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int64) (string, error)
}

// completionTemperature applies to every pipeline call.
const completionTemperature = 0.7

// llmCompleter is the Anthropic-backed Completer with transient retry.
type llmCompleter struct {
	client anthropic.Client
	model  string
}

// NewCompleter wraps an Anthropic client as a Completer.
func NewCompleter(client anthropic.Client, model string) Completer {
	return &llmCompleter{client: client, model: model}
}

func (c *llmCompleter) Complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("anthropic", "create_message")

	temp := completionTemperature
	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       c.model,
			MaxTokens:   maxTokens,
			Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
			Temperature: &temp,
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: complete")
	}

	resp.Usage.LogCost(c.model, "pipeline")
	return resp.Text(), nil
}
