package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"assessrec/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "assessrec",
	Short: "Assessment recommendation service - retrieve and balance pre-employment assessments",
	Long: `assessrec recommends a balanced set of pre-employment assessments for a
natural-language hiring query. It embeds the assessment catalog, retrieves
candidates by cosine similarity, classifies the query domain, and blends
Knowledge & Skills with Personality & Behavior assessments.

Example usage:
  assessrec index                      # Embed the catalog and build the index
  assessrec query -q "java developer"  # One-off recommendation in the terminal
  assessrec serve                      # Start the HTTP API`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// API keys may live in a local .env file.
		_ = godotenv.Load()

		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, wdErr := os.Getwd()
			if wdErr != nil {
				return fmt.Errorf("failed to get working directory: %w", wdErr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./assessrec.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}
