package model

import "time"

// Sample is one probe of a benchmarked process. Nil fields mean the metric
// was unavailable at that instant and are encoded as null.
type Sample struct {
	Timestamp float64  `json:"timestamp"`
	CPUUsage  *float64 `json:"cpu_usage"`
	RAM       *int64   `json:"ram"`
	GPUUsage  *float64 `json:"gpu_usage"`
	GPURAM    *int64   `json:"gpu_ram"`
}

// Run is an ordered series of samples from a single benchmark invocation.
type Run []Sample

func Float(v float64) *float64 { return &v }

func Int(v int64) *int64 { return &v }

// Timestamp converts t to seconds since the epoch.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
