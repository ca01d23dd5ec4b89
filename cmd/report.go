package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/registry"
	"github.com/maxdcmn/rsgbench/internal/stats"
	"github.com/maxdcmn/rsgbench/internal/task"
)

var reportFlags struct {
	inputSize int
	batchSize int
	models    []string
	tasks     []string
	json      bool
}

// reportRow is one (model, task) group. Nil fields had no runs to compute
// them from.
type reportRow struct {
	Model    string   `json:"model"`
	Task     string   `json:"task"`
	GPURAM   *float64 `json:"gpu_ram"`
	InitTime *float64 `json:"init_time"`
	RPS      *float64 `json:"rps"`
}

var reportCmd = &cobra.Command{
	Use:   "report [registry_dir]",
	Short: "Tabulate GPU RAM, startup time and RPS per model and task from a bench registry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.RegistryDir
		if len(args) == 1 {
			dir = args[0]
		}
		records, err := registry.List(dir)
		if err != nil {
			return fmt.Errorf("failed to list registry: %w", err)
		}

		models := reportFlags.models
		if len(models) == 0 {
			models = lo.Uniq(lo.Map(records, func(r registry.Record, _ int) string { return r.Model }))
		}
		tasks := reportFlags.tasks
		if len(tasks) == 0 {
			tasks = presentTasks(records)
		}

		opts := stats.GroupOptions{
			InputSize: flagOr(cmd, "input-size", reportFlags.inputSize, cfg.Stats.InputSize),
			BatchSize: flagOr(cmd, "batch-size", reportFlags.batchSize, cfg.Stats.BatchSize),
			Threshold: cfg.Stats.GPUUsageThreshold,
		}
		groups, err := stats.BuildGroups(records, models, tasks, opts)
		if err != nil {
			return err
		}
		rows := lo.Map(groups, func(g stats.Group, _ int) reportRow { return newReportRow(g) })

		if reportFlags.json {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		_, err = fmt.Fprintln(os.Stdout, renderReport(rows))
		return err
	},
}

// presentTasks lists the tasks found in records, in leaderboard order.
func presentTasks(records []registry.Record) []string {
	seen := lo.SliceToMap(records, func(r registry.Record) (string, bool) { return r.Task, true })
	var tasks []string
	for _, t := range task.All {
		if seen[t.String()] {
			tasks = append(tasks, t.String())
		}
	}
	return tasks
}

func newReportRow(g stats.Group) reportRow {
	row := reportRow{Model: g.Model, Task: g.Task}
	if v, ok := g.GPURAM(); ok {
		gib := v / stats.GB
		row.GPURAM = &gib
	}
	if v, ok := g.InitTime(); ok {
		row.InitTime = &v
	}
	if v, ok := g.RPS(); ok {
		row.RPS = &v
	}
	return row
}

func formatOptional(v *float64, digits int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', digits, 64)
}

func renderReport(rows []reportRow) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("model", "task", "gpu ram, GiB", "init, s", "rps").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col >= 2 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Model, r.Task, formatOptional(r.GPURAM, 2), formatOptional(r.InitTime, 1), formatOptional(r.RPS, 1))
	}
	return t.String()
}

func init() {
	reportCmd.Flags().IntVar(&reportFlags.inputSize, "input-size", stats.DefaultGroupInputSize, "input size of the workload runs")
	reportCmd.Flags().IntVar(&reportFlags.batchSize, "batch-size", stats.DefaultGroupBatchSize, "batch size of the workload runs")
	reportCmd.Flags().StringSliceVar(&reportFlags.models, "model", nil, "models to report (default all)")
	reportCmd.Flags().StringSliceVar(&reportFlags.tasks, "task", nil, "tasks to report (default all present)")
	reportCmd.Flags().BoolVar(&reportFlags.json, "json", false, "print JSON instead of a table")
}
