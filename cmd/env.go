package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/OsamaMoftah/AiResearcher/internal/agent"
	"github.com/OsamaMoftah/AiResearcher/internal/model"
	"github.com/OsamaMoftah/AiResearcher/internal/source"
	"github.com/OsamaMoftah/AiResearcher/internal/store"
	anthropicpkg "github.com/OsamaMoftah/AiResearcher/pkg/anthropic"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "airesearcher.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func buildAggregator() *source.Aggregator {
	return source.NewAggregator(
		source.NewArxiv(source.WithBaseURL(cfg.Sources.ArxivBaseURL)),
		source.NewOpenAlex(source.WithBaseURL(cfg.Sources.OpenAlexBaseURL)),
		source.NewPwc(source.WithBaseURL(cfg.Sources.PwcBaseURL)),
		source.NewHf(source.WithBaseURL(cfg.Sources.HfBaseURL)),
		source.NewPubmed(source.WithBaseURL(cfg.Sources.PubmedBaseURL)),
		source.NewBiorxiv(source.WithBaseURL(cfg.Sources.BiorxivBaseURL)),
	)
}

// aggregatorSearcher adapts the multi-platform aggregator to the single-query
// Searcher the validator uses for challenge searches.
type aggregatorSearcher struct {
	agg     *source.Aggregator
	enabled []string
}

func (s *aggregatorSearcher) Search(ctx context.Context, query string, max int) ([]model.Paper, error) {
	papers := s.agg.SearchAll(ctx, query, max, s.enabled)
	if len(papers) > max {
		papers = papers[:max]
	}
	return papers, nil
}

func buildPipeline(agg *source.Aggregator, enabled []string) *agent.Pipeline {
	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	completer := agent.NewCompleter(client, cfg.Anthropic.Model)
	searcher := &aggregatorSearcher{agg: agg, enabled: enabled}
	return agent.NewPipeline(completer, searcher, cfg.Pipeline.Intelligence)
}

// executeRun drives one persisted run end to end: paper search, the four-agent
// pipeline, and status transitions. Failures are recorded on the run before
// being returned.
func executeRun(ctx context.Context, st store.Store, agg *source.Aggregator, p *agent.Pipeline, run *model.Run) (*model.RunResult, error) {
	if err := st.UpdateRunStatus(ctx, run.ID, model.RunSearching); err != nil {
		return nil, err
	}

	budget := source.MaxPerPlatform(run.NumPapers, len(run.Sources))
	papers := agg.SearchAll(ctx, run.Topic, budget, run.Sources)
	if len(papers) > run.NumPapers {
		papers = papers[:run.NumPapers]
	}
	if len(papers) == 0 {
		msg := "no papers found for this topic"
		if err := st.FailRun(ctx, run.ID, msg); err != nil {
			zap.L().Error("fail run", zap.String("run_id", run.ID), zap.Error(err))
		}
		return nil, eris.New(msg)
	}

	zap.L().Info("papers collected",
		zap.String("run_id", run.ID),
		zap.String("topic", run.Topic),
		zap.Int("papers", len(papers)),
	)

	if err := st.UpdateRunStatus(ctx, run.ID, model.RunAnalyzing); err != nil {
		return nil, err
	}

	result, err := p.GenerateInsights(ctx, papers, run.Topic)
	if err != nil {
		if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
			zap.L().Error("fail run", zap.String("run_id", run.ID), zap.Error(ferr))
		}
		return nil, eris.Wrap(err, "generate insights")
	}

	if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
		return nil, eris.Wrap(err, "persist result")
	}

	zap.L().Info("run complete",
		zap.String("run_id", run.ID),
		zap.Int("insights", len(result.Insights)),
		zap.Float64("duration_secs", result.DurationSecs),
	)
	return result, nil
}
