package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aghaapesar/match-url-ai/internal/config"
	"github.com/aghaapesar/match-url-ai/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "matchurl",
	Short: "Match legacy URLs to a new site structure with AI assistance",
	Long: `Matchurl maps old site URLs to their best equivalents in a new site
structure. It narrows the new-site sitemap down to a handful of candidates
per legacy URL with token similarity, asks an AI provider to pick the best
one, and writes a reviewed, color-coded spreadsheet with duplicate and
low-confidence rows flagged.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig reads the config file and builds the logger in one step, since
// every subcommand needs both. The --verbose flag overrides the configured
// log level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
