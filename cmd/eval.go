package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/score"
	"github.com/maxdcmn/rsgbench/internal/task"
)

var evalFlags struct {
	score bool
}

// taskResult is what eval and eval-dir print for one task.
type taskResult struct {
	Metrics score.Metrics `json:"metrics"`
	Score   string        `json:"score,omitempty"`
	Value   *float64      `json:"value,omitempty"`
}

var evalCmd = &cobra.Command{
	Use:   "eval <task> <preds_path> <targets_path>",
	Short: "Score normalised predictions of one task against its targets",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := task.Parse(args[0])
		if err != nil {
			return err
		}
		metrics, err := evaluateFiles(t, args[1], args[2])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if !evalFlags.score {
			return enc.Encode(metrics)
		}
		res, err := newTaskResult(t, metrics)
		if err != nil {
			return err
		}
		return enc.Encode(res)
	},
}

func evaluateFiles(t task.Task, predsPath, targetsPath string) (score.Metrics, error) {
	preds, err := jsonl.ReadFile[json.RawMessage](predsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}
	targets, err := jsonl.ReadFile[json.RawMessage](targetsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}
	metrics, err := score.Evaluate(t, preds, targets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	return metrics, nil
}

func newTaskResult(t task.Task, metrics score.Metrics) (taskResult, error) {
	s, err := score.FromMetrics(t, metrics)
	if err != nil {
		return taskResult{}, err
	}
	value := s.Value()
	return taskResult{Metrics: metrics, Score: s.String(), Value: &value}, nil
}

func init() {
	evalCmd.Flags().BoolVar(&evalFlags.score, "score", false, "also print the leaderboard score")
}
