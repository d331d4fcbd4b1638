package source

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

const (
	perSourceTimeout = 20 * time.Second
	batchTimeout     = 30 * time.Second
	maxWorkers       = 7
	submitInterval   = 300 * time.Millisecond
)

// Aggregator fans a query out across platforms. A failing platform costs
// only its own results; everything else still comes back.
type Aggregator struct {
	sources map[string]Source
	limiter *rate.Limiter
}

// NewAggregator creates an aggregator over the given sources.
func NewAggregator(sources ...Source) *Aggregator {
	m := make(map[string]Source, len(sources))
	for _, s := range sources {
		m[s.Name()] = s
	}
	return &Aggregator{
		sources: m,
		limiter: rate.NewLimiter(rate.Every(submitInterval), 1),
	}
}

// Names returns the registered platform names.
func (a *Aggregator) Names() []string {
	names := make([]string, 0, len(a.sources))
	for name := range a.sources {
		names = append(names, name)
	}
	return names
}

// SearchAll queries the enabled platforms concurrently and merges their
// results. Platform failures are logged and swallowed; unknown platform
// names are skipped with a warning. The Hugging Face hub returns model
// cards rather than papers, so it gets half the per-platform budget.
func (a *Aggregator) SearchAll(ctx context.Context, query string, maxPerSource int, enabled []string) []model.Paper {
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	workers := len(enabled)
	if workers > maxWorkers {
		workers = maxWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	var papers []model.Paper

	for _, name := range enabled {
		src, ok := a.sources[name]
		if !ok {
			zap.L().Warn("unknown paper source", zap.String("source", name))
			continue
		}

		budget := maxPerSource
		if name == "hf" {
			budget = maxPerSource / 2
		}
		if budget < 1 {
			budget = 1
		}

		// Courtesy delay between submissions so platforms are not hit
		// simultaneously.
		if err := a.limiter.Wait(ctx); err != nil {
			break
		}

		g.Go(func() error {
			taskCtx, taskCancel := context.WithTimeout(gctx, perSourceTimeout)
			defer taskCancel()

			start := time.Now()
			results, err := src.Search(taskCtx, query, budget)
			if err != nil {
				zap.L().Warn("paper source failed",
					zap.String("source", src.Name()),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
				return nil
			}

			for i := range results {
				results[i].Platform = src.Name()
			}

			mu.Lock()
			papers = append(papers, results...)
			mu.Unlock()

			zap.L().Info("paper source complete",
				zap.String("source", src.Name()),
				zap.Int("papers", len(results)),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}

	_ = g.Wait()
	return papers
}

// MaxPerPlatform computes the per-platform budget for a total paper target,
// with a floor of 5 so small requests still sample each platform.
func MaxPerPlatform(numPapers, numSources int) int {
	if numSources < 1 {
		numSources = 1
	}
	per := numPapers/numSources + 1
	if per < 5 {
		per = 5
	}
	return per
}
