package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/maxdcmn/rsgbench/internal/task"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

var evalDirFlags struct {
	split  string
	access string
}

var evalDirCmd = &cobra.Command{
	Use:   "eval-dir <preds_dir> <targets_dir>",
	Short: "Score every task whose predictions ({Task}.jsonl) and targets exist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := evaluateDir(args[0], args[1], evalDirFlags.split, evalDirFlags.access)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

// targetsPath locates the labelled split of t. With an empty access the
// targets directory holds the task directories directly.
func targetsPath(t task.Task, dir, access, split string) string {
	if access == "" {
		return t.Path(dir, split)
	}
	return t.DataPath(dir, access, split)
}

// evaluateDir scores all tasks with files present concurrently. Any failing
// task fails the whole run.
func evaluateDir(predsDir, targetsDir, split, access string) (map[string]taskResult, error) {
	type job struct {
		task           task.Task
		preds, targets string
	}
	var jobs []job
	for _, t := range task.All {
		j := job{
			task:    t,
			preds:   filepath.Join(predsDir, t.Title()+".jsonl"),
			targets: targetsPath(t, targetsDir, access, split),
		}
		if !exists(j.preds) || !exists(j.targets) {
			utils.Debug("skipping %s: missing %s or %s", t, j.preds, j.targets)
			continue
		}
		jobs = append(jobs, j)
	}

	results := make([]taskResult, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			metrics, err := evaluateFiles(j.task, j.preds, j.targets)
			if err != nil {
				return err
			}
			res, err := newTaskResult(j.task, metrics)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]taskResult, len(jobs))
	for i, j := range jobs {
		out[j.task.String()] = results[i]
	}
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	evalDirCmd.Flags().StringVar(&evalDirFlags.split, "split", "test", "target split to score against")
	evalDirCmd.Flags().StringVar(&evalDirFlags.access, "access", "", "dataset copy under targets_dir (public or private)")
}
