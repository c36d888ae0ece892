package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"assessrec/internal/app"
	"assessrec/internal/logger"
	"assessrec/internal/usecase"
)

var (
	predictFile   string
	predictOutput string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Export recommendations for a query set as CSV",
	Long: `Run every query of an input CSV through the pipeline and write one
Query,Assessment_url row per recommendation.

Examples:
  assessrec predict -f data/test_queries.csv -o data/predictions.csv`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVarP(&predictFile, "file", "f", "", "query CSV (required)")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "predictions.csv", "output CSV path")
	predictCmd.MarkFlagRequired("file")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	queries, err := usecase.LoadLabeledQueries(predictFile)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", predictFile)
	}

	a, err := app.Load(cmd.Context(), cfg, log, false, nil)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	defer a.Close()

	out, err := os.Create(predictOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	evalUC := usecase.NewEvalUseCase(a.Retriever, a.Recommender, cfg.Retrieve.TopK, cfg.Balance.FinalCount)

	bar := progressbar.NewOptions(len(queries),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Predicting"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	err = evalUC.Predict(cmd.Context(), queries, out, func(processed, total int) {
		bar.Set(processed)
	})
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	fmt.Printf("\nPredictions saved to: %s\n", predictOutput)
	fmt.Printf("Queries processed: %d\n", len(queries))
	return nil
}
