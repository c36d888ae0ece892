package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"assessrec/internal/app"
	"assessrec/internal/logger"
)

var (
	queryText  string
	queryTopK  int
	queryCount int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Recommend assessments for a hiring query",
	Long: `Run one hiring query through the full pipeline and print the balanced
recommendations.

Examples:
  assessrec query -q "hiring java developers who collaborate with business teams"
  assessrec query -q "customer service lead" --top-k 30 --count 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "hiring query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "candidates to retrieve (default from config)")
	queryCmd.Flags().IntVarP(&queryCount, "count", "n", 0, "recommendations to return (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

type recommendationRow struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	TestType string  `json:"test_type"`
	Category string  `json:"category"`
	Score    float64 `json:"similarity_score"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	a, err := app.Load(cmd.Context(), cfg, log, false, nil)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	defer a.Close()

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	finalCount := cfg.Balance.FinalCount
	if queryCount > 0 {
		finalCount = queryCount
	}

	recommended, err := a.Recommend(cmd.Context(), queryText, topK, finalCount)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	rows := make([]recommendationRow, len(recommended))
	for i, rec := range recommended {
		rows[i] = recommendationRow{
			Name:     rec.Name,
			URL:      rec.URL,
			TestType: rec.TestType.DisplayLabel(),
			Category: rec.Category,
			Score:    rec.SimilarityScore,
		}
	}

	if queryJSON {
		output, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No recommendations found.")
		return nil
	}

	fmt.Printf("Top %d recommendations for: %s\n\n", len(rows), queryText)
	for i, r := range rows {
		fmt.Printf("%d. %s (%s)\n", i+1, r.Name, r.TestType)
		fmt.Printf("   Score: %.4f\n", r.Score)
		fmt.Printf("   URL: %s\n\n", r.URL)
	}

	return nil
}
