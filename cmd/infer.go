package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/client"
	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/normalize"
	"github.com/maxdcmn/rsgbench/internal/task"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

var inferFlags struct {
	baseURL   string
	endpoint  string
	timeout   time.Duration
	batchSize int
	cacheMB   int
}

var inferCmd = &cobra.Command{
	Use:   "infer <task>",
	Short: "Label task items read from stdin with a perplexity server and print predictions (NDJSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := task.Parse(args[0])
		if err != nil {
			return err
		}
		items, err := jsonl.Decode[json.RawMessage](os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read items: %w", err)
		}

		baseURL := flagOr(cmd, "url", inferFlags.baseURL, cfg.Scorer.BaseURL)
		endpoint := flagOr(cmd, "endpoint", inferFlags.endpoint, cfg.Scorer.Endpoint)
		timeout := flagOr(cmd, "timeout", inferFlags.timeout, cfg.Scorer.Timeout)
		c := client.New(baseURL, endpoint, timeout)

		ctx := cmd.Context()
		if err := checkHealth(ctx, c, timeout); err != nil {
			utils.Warn("scorer at %s is not healthy: %v", baseURL, err)
		}

		var scorer normalize.CandidateScorer = c
		if cacheMB := flagOr(cmd, "cache-mb", inferFlags.cacheMB, cfg.Scorer.CacheMB); cacheMB > 0 {
			scorer = normalize.NewCachingScorer(c, cacheMB<<20)
		}
		n := normalize.New(scorer, flagOr(cmd, "batch-size", inferFlags.batchSize, cfg.Scorer.BatchSize))

		utils.Info("labelling %d %s items", len(items), t)
		preds, err := n.Normalize(ctx, t, items)
		if err != nil {
			return err
		}
		return jsonl.Encode(os.Stdout, preds)
	},
}

func checkHealth(ctx context.Context, c *client.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Health(ctx)
}

func init() {
	inferCmd.Flags().StringVar(&inferFlags.baseURL, "url", "http://127.0.0.1:8080", "perplexity server base URL")
	inferCmd.Flags().StringVar(&inferFlags.endpoint, "endpoint", client.DefaultEndpoint, "perplexity endpoint path")
	inferCmd.Flags().DurationVar(&inferFlags.timeout, "timeout", 30*time.Second, "HTTP timeout")
	inferCmd.Flags().IntVar(&inferFlags.batchSize, "batch-size", normalize.DefaultBatchSize, "texts per scoring request")
	inferCmd.Flags().IntVar(&inferFlags.cacheMB, "cache-mb", 64, "size of the in-memory score cache in MiB (0 disables)")
}
