package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aghaapesar/match-url-ai/internal/llm"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the configured AI provider connection",
	Long: `Ping sends a minimal JSON request to the configured provider and prints
its reply. Use it to verify credentials and connectivity before a run.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg.AI)
	if err != nil {
		return err
	}

	start := time.Now()
	reply, err := llm.Ping(ctx, client)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	logger.Debug("ping round trip", "elapsed", time.Since(start))

	fmt.Printf("provider: %s\n", cfg.AI.Provider)
	if cfg.AI.Model != "" {
		fmt.Printf("model:    %s\n", cfg.AI.Model)
	}
	fmt.Printf("reply:    %s\n", reply)
	return nil
}
