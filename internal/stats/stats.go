// Package stats reduces benchmark runs to wall time, GPU time, peak GPU
// memory and throughput.
package stats

import (
	"errors"
	"slices"

	"github.com/maxdcmn/rsgbench/internal/model"
)

const DefaultGPUUsageThreshold = 0.1

var ErrEmptyRun = errors.New("no bench records")

type RunStats struct {
	TotalTime float64 `json:"total_time"`
	GPUTime   float64 `json:"gpu_time"`
	MaxGPURAM *int64  `json:"max_gpu_ram"`
}

// Compute reduces run. GPU time counts each interval whose closing sample
// reports a GPU usage of at least threshold.
func Compute(run model.Run, threshold float64) (RunStats, error) {
	if len(run) == 0 {
		return RunStats{}, ErrEmptyRun
	}

	var stats RunStats
	stats.TotalTime = run[len(run)-1].Timestamp - run[0].Timestamp
	for i, s := range run {
		if s.GPURAM != nil && (stats.MaxGPURAM == nil || *s.GPURAM > *stats.MaxGPURAM) {
			stats.MaxGPURAM = model.Int(*s.GPURAM)
		}
		if i > 0 && s.GPUUsage != nil && *s.GPUUsage >= threshold {
			stats.GPUTime += s.Timestamp - run[i-1].Timestamp
		}
	}
	return stats, nil
}

// Median follows the usual definition: the mean of the two middle values
// for an even count. It is 0 for no values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
