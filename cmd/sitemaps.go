package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aghaapesar/match-url-ai/internal/sitemap"
)

var sitemapsDir string

var sitemapsCmd = &cobra.Command{
	Use:   "sitemaps",
	Short: "Manage the local sitemap cache",
}

var sitemapsFetchCmd = &cobra.Command{
	Use:   "fetch [url...]",
	Short: "Download sitemaps into the local cache",
	Long: `Fetch downloads each sitemap URL into the sitemap directory, retrying
transient failures. Files already present are left untouched. With no
arguments the URLs are read from standard input, one per line.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSitemapsFetch,
}

var sitemapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached sitemaps and their URL counts",
	Args:  cobra.NoArgs,
	RunE:  runSitemapsList,
}

func init() {
	rootCmd.AddCommand(sitemapsCmd)
	sitemapsCmd.AddCommand(sitemapsFetchCmd)
	sitemapsCmd.AddCommand(sitemapsListCmd)

	sitemapsCmd.PersistentFlags().StringVar(&sitemapsDir, "dir", "", "sitemap directory (defaults to sitemaps.dir from the config)")
}

func resolveSitemapsDir() (string, error) {
	if sitemapsDir != "" {
		return sitemapsDir, nil
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Sitemaps.Dir, nil
}

func runSitemapsFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Sitemaps.Dir
	if sitemapsDir != "" {
		dir = sitemapsDir
	}

	urls := args
	if len(urls) == 0 {
		urls, err = readURLLines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading sitemap URLs from stdin: %w", err)
		}
	}
	if len(urls) == 0 {
		return fmt.Errorf("no sitemap URLs given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := sitemap.NewFetcher(dir, logger)
	saved := fetcher.FetchAll(ctx, urls)
	for _, path := range saved {
		fmt.Println(path)
	}
	if len(saved) < len(urls) {
		return fmt.Errorf("fetched %d of %d sitemaps", len(saved), len(urls))
	}
	return nil
}

// readURLLines collects non-blank lines until EOF.
func readURLLines(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

func runSitemapsList(cmd *cobra.Command, args []string) error {
	dir, err := resolveSitemapsDir()
	if err != nil {
		return err
	}
	paths, err := sitemap.Discover(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("no sitemaps in '%s'\n", dir)
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "URLs", "Status"})
	for _, st := range sitemap.Stats(paths) {
		status := "ok"
		if st.Err != nil {
			status = st.Err.Error()
		}
		tw.AppendRow(table.Row{st.Path, st.Count, status})
	}
	tw.Render()
	return nil
}
