package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/stats"
)

var statsFlags struct {
	runs      bool
	threshold float64
	compact   bool
}

type runStatsLine struct {
	Path string `json:"path"`
	stats.RunStats
}

var statsCmd = &cobra.Command{
	Use:   "stats <bench_paths...>",
	Short: "Summarise bench runs of one task (GPU RAM in GiB and RPS)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold := flagOr(cmd, "gpu-threshold", statsFlags.threshold, cfg.Stats.GPUUsageThreshold)

		benches := make([]stats.Bench, 0, len(args))
		for _, path := range args {
			b, err := stats.LoadBench(path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			benches = append(benches, b)
		}

		if statsFlags.runs {
			enc := jsonl.NewEncoder(os.Stdout)
			for _, b := range benches {
				s, err := stats.Compute(b.Run, threshold)
				if err != nil {
					return fmt.Errorf("%s: %w", b.Path, err)
				}
				if err := enc.Encode(runStatsLine{Path: b.Path, RunStats: s}); err != nil {
					return err
				}
			}
			return nil
		}

		ts, err := stats.ComputeTaskStats(benches, threshold)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		if !statsFlags.compact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(ts)
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsFlags.runs, "runs", false, "print per-run stats (NDJSON) instead of the task summary")
	statsCmd.Flags().Float64Var(&statsFlags.threshold, "gpu-threshold", stats.DefaultGPUUsageThreshold, "GPU usage above which an interval counts as GPU time")
	statsCmd.Flags().BoolVar(&statsFlags.compact, "compact", false, "print compact JSON (no indentation)")
}
