package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OsamaMoftah/AiResearcher/internal/source"
)

var (
	runTopic   string
	runPapers  int
	runSources []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the insight pipeline for a research topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		numPapers := runPapers
		if numPapers <= 0 {
			numPapers = cfg.Pipeline.NumPapers
		}
		enabled := runSources
		if len(enabled) == 0 {
			enabled = cfg.Sources.Enabled
		}

		agg := buildAggregator()
		p := buildPipeline(agg, enabled)

		run, err := st.CreateRun(ctx, runTopic, enabled, numPapers)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		zap.L().Info("run started",
			zap.String("run_id", run.ID),
			zap.String("topic", runTopic),
			zap.Strings("sources", enabled),
			zap.Int("num_papers", numPapers),
			zap.Int("per_platform", source.MaxPerPlatform(numPapers, len(enabled))),
		)

		result, err := executeRun(ctx, st, agg, p, run)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runTopic, "topic", "", "research topic to investigate (required)")
	runCmd.Flags().IntVar(&runPapers, "papers", 0, "number of papers to analyze (default from config)")
	runCmd.Flags().StringSliceVar(&runSources, "sources", nil, "paper platforms to search (default from config)")
	_ = runCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(runCmd)
}
