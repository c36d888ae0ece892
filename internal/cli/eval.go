package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"assessrec/internal/app"
	"assessrec/internal/logger"
	"assessrec/internal/usecase"
)

var (
	evalFile    string
	evalVerbose bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate Recall@K on a labeled query set",
	Long: `Replay labeled hiring queries through the full pipeline and report
mean Recall@K. The input CSV needs columns query,relevant_urls where
relevant_urls is a semicolon-separated list of assessment URLs.

Examples:
  assessrec eval -f data/train_queries.csv
  assessrec eval -f data/train_queries.csv --verbose`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalFile, "file", "f", "", "labeled query CSV (required)")
	evalCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "print per-query recall")
	evalCmd.MarkFlagRequired("file")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	queries, err := usecase.LoadLabeledQueries(evalFile)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", evalFile)
	}

	a, err := app.Load(cmd.Context(), cfg, log, false, nil)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	defer a.Close()

	evalUC := usecase.NewEvalUseCase(a.Retriever, a.Recommender, cfg.Retrieve.TopK, cfg.Balance.FinalCount)

	bar := progressbar.NewOptions(len(queries),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Evaluating"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	result, err := evalUC.Evaluate(cmd.Context(), queries, func(processed, total int) {
		bar.Set(processed)
	})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evalVerbose {
		fmt.Println()
		for _, q := range result.Queries {
			fmt.Printf("  %.4f  %s\n", q.Recall, q.Query)
		}
	}

	fmt.Printf("\nEvaluation complete:\n")
	fmt.Printf("  Queries scored: %d\n", len(result.Queries))
	if result.Skipped > 0 {
		fmt.Printf("  Skipped:        %d (no relevant URLs)\n", result.Skipped)
	}
	fmt.Printf("  Mean Recall@%d:  %.4f\n", cfg.Balance.FinalCount, result.MeanRecall)
	return nil
}
