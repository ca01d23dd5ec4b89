package stats

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/maxdcmn/rsgbench/internal/model"
	"github.com/maxdcmn/rsgbench/internal/registry"
)

const (
	DefaultGroupInputSize = 2000
	DefaultGroupBatchSize = 32

	GB = 1 << 30
)

// Group aggregates calibration runs (one input, batch of one) and workload
// runs of one model on one task.
type Group struct {
	Model      string    `json:"model"`
	Task       string    `json:"task"`
	InputSize  int       `json:"input_size"`
	GPURAMs    []int64   `json:"gpu_rams"`
	InitTimes  []float64 `json:"init_times"`
	TotalTimes []float64 `json:"total_times"`
	GPUTimes   []float64 `json:"gpu_times"`
}

// RPS is items per second of processing time, processing time being a
// workload run's wall time minus the median startup cost. ok is false when
// either calibration or workload runs are missing, or when the workload runs
// took no longer than startup.
func (g Group) RPS() (rps float64, ok bool) {
	if len(g.InitTimes) == 0 || len(g.TotalTimes) == 0 {
		return 0, false
	}
	init := Median(g.InitTimes)
	proc := Median(lo.Map(g.TotalTimes, func(total float64, _ int) float64 { return total - init }))
	if proc <= 0 {
		return 0, false
	}
	return float64(g.InputSize) / proc, true
}

// GPURAM is the median peak GPU memory of the calibration runs in bytes.
func (g Group) GPURAM() (float64, bool) {
	if len(g.GPURAMs) == 0 {
		return 0, false
	}
	return Median(lo.Map(g.GPURAMs, func(v int64, _ int) float64 { return float64(v) })), true
}

// InitTime is the median wall time of the calibration runs.
func (g Group) InitTime() (float64, bool) {
	if len(g.InitTimes) == 0 {
		return 0, false
	}
	return Median(g.InitTimes), true
}

type GroupOptions struct {
	InputSize int
	BatchSize int
	Threshold float64
}

func DefaultGroupOptions() GroupOptions {
	return GroupOptions{
		InputSize: DefaultGroupInputSize,
		BatchSize: DefaultGroupBatchSize,
		Threshold: DefaultGPUUsageThreshold,
	}
}

// BuildGroups loads every (model, task) group from the registry records.
func BuildGroups(records []registry.Record, models, tasks []string, opts GroupOptions) ([]Group, error) {
	var groups []Group
	for _, m := range models {
		for _, t := range tasks {
			g := Group{Model: m, Task: t, InputSize: opts.InputSize}

			calibration, err := loadStats(registry.Query(records, registry.Filter{
				Models: []string{m}, Tasks: []string{t}, InputSizes: []int{1}, BatchSizes: []int{1},
			}), opts.Threshold)
			if err != nil {
				return nil, err
			}
			for _, s := range calibration {
				if s.MaxGPURAM != nil {
					g.GPURAMs = append(g.GPURAMs, *s.MaxGPURAM)
				}
				g.InitTimes = append(g.InitTimes, s.TotalTime)
			}

			workload, err := loadStats(registry.Query(records, registry.Filter{
				Models: []string{m}, Tasks: []string{t}, InputSizes: []int{opts.InputSize}, BatchSizes: []int{opts.BatchSize},
			}), opts.Threshold)
			if err != nil {
				return nil, err
			}
			for _, s := range workload {
				g.TotalTimes = append(g.TotalTimes, s.TotalTime)
				g.GPUTimes = append(g.GPUTimes, s.GPUTime)
			}
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func loadStats(records []registry.Record, threshold float64) ([]RunStats, error) {
	result := make([]RunStats, 0, len(records))
	for _, r := range records {
		run, err := registry.Load(r)
		if err != nil {
			return nil, err
		}
		s, err := Compute(run, threshold)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Path(), err)
		}
		result = append(result, s)
	}
	return result, nil
}

// Bench is a run loaded from an arbitrary path named like a registry file.
type Bench struct {
	Path      string
	Task      string
	InputSize int
	BatchSize int
	Run       model.Run
}

func LoadBench(path string) (Bench, error) {
	info, err := registry.ParsePath(path)
	if err != nil {
		return Bench{}, err
	}
	run, err := registry.LoadFile(path)
	if err != nil {
		return Bench{}, err
	}
	return Bench{Path: path, Task: info.Task, InputSize: info.InputSize, BatchSize: info.BatchSize, Run: run}, nil
}

type TaskStats struct {
	Task string `json:"task"`
	// GPURAM is in GiB, nil when no calibration run measured GPU memory.
	GPURAM *float64 `json:"gpu_ram"`
	RPS    float64  `json:"rps"`
}

var (
	ErrMixedTasks       = errors.New("multiple tasks")
	ErrNoCalibration    = errors.New("no input_size == 1 benches")
	ErrNoWorkloadRuns   = errors.New("no input_size > 1 benches")
	ErrNoProcessingTime = errors.New("run not longer than median startup time")
)

// ComputeTaskStats summarises benches of a single task. Unlike Group.RPS the
// throughput is the median of per-run throughputs.
func ComputeTaskStats(benches []Bench, threshold float64) (TaskStats, error) {
	tasks := lo.Uniq(lo.Map(benches, func(b Bench, _ int) string { return b.Task }))
	if len(tasks) > 1 {
		return TaskStats{}, fmt.Errorf("%w: %v", ErrMixedTasks, tasks)
	}
	calibration := lo.Filter(benches, func(b Bench, _ int) bool { return b.InputSize == 1 })
	workload := lo.Filter(benches, func(b Bench, _ int) bool { return b.InputSize > 1 })
	if len(calibration) == 0 {
		return TaskStats{}, ErrNoCalibration
	}
	if len(workload) == 0 {
		return TaskStats{}, ErrNoWorkloadRuns
	}

	var gpuRAMs, initTimes []float64
	for _, b := range calibration {
		s, err := Compute(b.Run, threshold)
		if err != nil {
			return TaskStats{}, fmt.Errorf("%s: %w", b.Path, err)
		}
		if s.MaxGPURAM != nil {
			gpuRAMs = append(gpuRAMs, float64(*s.MaxGPURAM))
		}
		initTimes = append(initTimes, s.TotalTime)
	}
	init := Median(initTimes)

	var rps []float64
	for _, b := range workload {
		s, err := Compute(b.Run, threshold)
		if err != nil {
			return TaskStats{}, fmt.Errorf("%s: %w", b.Path, err)
		}
		proc := s.TotalTime - init
		if proc <= 0 {
			return TaskStats{}, fmt.Errorf("%s: %w (%.3fs <= %.3fs)", b.Path, ErrNoProcessingTime, s.TotalTime, init)
		}
		rps = append(rps, float64(b.InputSize)/proc)
	}

	ts := TaskStats{Task: tasks[0], RPS: Median(rps)}
	if len(gpuRAMs) > 0 {
		ts.GPURAM = model.Float(Median(gpuRAMs) / GB)
	}
	return ts, nil
}
