package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aghaapesar/match-url-ai/internal/config"
	"github.com/aghaapesar/match-url-ai/internal/llm"
	"github.com/aghaapesar/match-url-ai/internal/match"
	"github.com/aghaapesar/match-url-ai/internal/sheet"
	"github.com/aghaapesar/match-url-ai/internal/sitemap"
)

// testModeRows caps the workload while a configuration is still being tuned.
const testModeRows = 20

var (
	matchExcel       string
	matchSitemaps    []string
	matchSitemapURLs []string
	matchSitemapsDir string
	matchOut         string
	matchMode        string
	matchMinConf     float64
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match old URLs from an Excel file against the new sitemaps",
	Long: `Match reads old URLs from an Excel file, builds a candidate pool from
the new site's sitemaps, asks the configured AI provider to pick the best
destination for each URL, and writes the reviewed results to a color-coded
Excel file. Interrupting the run still writes the rows finished so far.`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVarP(&matchExcel, "excel", "e", "", "Excel file holding the old URLs (column \"url\")")
	matchCmd.Flags().StringArrayVar(&matchSitemaps, "sitemap", nil, "sitemap XML file to use (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchSitemapURLs, "sitemap-url", nil, "sitemap URL to download before matching (repeatable)")
	matchCmd.Flags().StringVar(&matchSitemapsDir, "sitemaps-dir", "", "directory of sitemap XML files (overrides sitemaps.dir)")
	matchCmd.Flags().StringVarP(&matchOut, "out", "o", "", "output Excel path (defaults to output.path from the config)")
	matchCmd.Flags().StringVar(&matchMode, "mode", "", `"test" matches the first 20 rows only, "full" matches everything`)
	matchCmd.Flags().Float64Var(&matchMinConf, "min-confidence", -1, "flag matches below this confidence (overrides matcher.min_confidence)")
	_ = matchCmd.MarkFlagRequired("excel")
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if matchSitemapsDir != "" {
		cfg.Sitemaps.Dir = matchSitemapsDir
	}
	if matchOut != "" {
		cfg.Output.Path = matchOut
	}
	if matchMode != "" {
		cfg.Matcher.Mode = matchMode
	}
	if matchMinConf >= 0 {
		cfg.Matcher.MinConfidence = matchMinConf
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, cfg.AI)
	if err != nil {
		return err
	}

	// Verify the provider answers before spending a whole run on it.
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	reply, err := llm.Ping(pingCtx, client)
	cancel()
	if err != nil {
		return fmt.Errorf("provider connection test failed: %w", err)
	}
	logger.Info("provider connection verified", "provider", cfg.AI.Provider, "model", cfg.AI.Model, "reply", reply)

	olds, err := sheet.ReadOldURLs(matchExcel, sheet.DefaultColumn)
	if err != nil {
		return err
	}
	if len(olds) == 0 {
		return fmt.Errorf("no old URLs found in '%s'", matchExcel)
	}

	paths, err := collectSitemaps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	urls := sitemap.ParseFiles(paths, logger)
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %d sitemap file(s)", len(paths))
	}
	pool := match.NewPool(urls)
	logger.Info("candidate pool ready", "sitemaps", len(paths), "urls", pool.Size())

	if cfg.Matcher.Mode == "test" && len(olds) > testModeRows {
		logger.Info("test mode: matching a subset", "rows", testModeRows, "total", len(olds))
		olds = olds[:testModeRows]
	}

	decider := match.NewDecider(client, match.NewLimiter(cfg.AI.QPS), match.DeciderConfig{
		MaxAttempts: cfg.AI.MaxRetries,
		BaseDelay:   time.Duration(cfg.AI.RetryBaseDelay * float64(time.Second)),
		Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}, logger)
	runner := match.NewRunner(pool, decider, match.RunnerConfig{
		Workers:       cfg.Matcher.Workers,
		MaxCandidates: cfg.Matcher.MaxCandidates,
		MinConfidence: cfg.Matcher.MinConfidence,
	}, logger)

	bar := progressbar.NewOptions(len(olds),
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	runner.OnProgress = func(done, total int) {
		_ = bar.Set(done)
	}

	report, runErr := runner.Run(ctx, olds)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	// An interrupted or failed run still writes the rows it completed.
	if err := sheet.Write(cfg.Output.Path, report.Results); err != nil {
		return err
	}
	logger.Info("results written", "path", cfg.Output.Path, "rows", len(report.Results))
	printSummary(report, cfg.Output.Path)

	return runErr
}

// collectSitemaps resolves the sitemap sources in priority order: explicit
// files, then downloads, then whatever already sits in the sitemap directory.
func collectSitemaps(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]string, error) {
	paths := append([]string(nil), matchSitemaps...)
	if len(matchSitemapURLs) > 0 {
		fetcher := sitemap.NewFetcher(cfg.Sitemaps.Dir, logger)
		paths = append(paths, fetcher.FetchAll(ctx, matchSitemapURLs)...)
	}
	if len(paths) == 0 {
		discovered, err := sitemap.Discover(cfg.Sitemaps.Dir)
		if err != nil {
			return nil, err
		}
		paths = discovered
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no sitemaps available: pass --sitemap or --sitemap-url, or put XML files in '%s'", cfg.Sitemaps.Dir)
	}
	return paths, nil
}

func printSummary(report *match.RunReport, outPath string) {
	s := report.Summary
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Run ID", report.RunID},
		{"Rows", s.Total},
		{"Resolved", s.Resolved},
		{"Unresolved", s.Unresolved},
		{"Low confidence", s.LowConfidence},
		{"Duplicate sources", s.SourceDups},
		{"Duplicate destinations", s.DestDups},
		{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
		{"Output", outPath},
	})
	tw.Render()
}
