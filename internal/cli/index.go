package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"assessrec/internal/app"
	"assessrec/internal/logger"
	"assessrec/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the assessment catalog and build the vector index",
	Long: `Load the catalog CSV files, embed every assessment and persist the
vectors. Existing vectors are overwritten.

Examples:
  assessrec index
  assessrec index --config ./assessrec.yaml`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	bar := newEmbeddingBar()

	a, err := app.Load(cmd.Context(), cfg, log, true, bar)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	defer a.Close()

	count, err := a.Vectors.Count()
	if err != nil {
		return err
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Assessments:  %d\n", a.Catalog.Count())
	fmt.Printf("  Vectors:      %d\n", count)
	fmt.Printf("  Backend:      %s\n", cfg.Catalog.Backend)
	fmt.Printf("\nIndex stored at: %s\n", cfg.Catalog.IndexPath)
	return nil
}

// newEmbeddingBar returns an IndexProgress callback drawing a terminal
// progress bar, created lazily once the total is known.
func newEmbeddingBar() usecase.IndexProgress {
	var bar *progressbar.ProgressBar

	return func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}
}
