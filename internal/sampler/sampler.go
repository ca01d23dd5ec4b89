// Package sampler probes a running workload at a fixed cadence and emits a
// uniform time series of resource samples.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maxdcmn/rsgbench/internal/model"
	"github.com/maxdcmn/rsgbench/internal/probe"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

var ErrPidNotFound = errors.New("pid not found")

type PidNotFoundError struct {
	Name     string
	Attempts int
}

func (e *PidNotFoundError) Error() string {
	return fmt.Sprintf("pid of %q not found after %d attempts", e.Name, e.Attempts)
}

func (e *PidNotFoundError) Is(target error) bool {
	return target == ErrPidNotFound
}

type Sampler struct {
	opts    *Options
	process probe.ProcessProbe
	gpu     probe.GPUProbe
	finder  probe.PidFinder
	now     func() time.Time
}

// New builds a sampler. gpu may be nil on hosts without a GPU, in which case
// GPU fields stay null.
func New(opts *Options, process probe.ProcessProbe, gpu probe.GPUProbe, finder probe.PidFinder) *Sampler {
	return &Sampler{
		opts:    opts,
		process: process,
		gpu:     gpu,
		finder:  finder,
		now:     time.Now,
	}
}

// Run starts w, resolves the pid registered under name and emits one sample
// per Delay until w exits. No sample is emitted after exit is observed.
func (s *Sampler) Run(ctx context.Context, w Workload, name string, emit func(model.Sample) error) error {
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start workload: %w", err)
	}

	pid, err := DiscoverPid(ctx, s.finder, name, s.opts.PidRetries, s.opts.PidRetryDelay)
	if err != nil {
		return err
	}
	utils.Debug("workload %s has pid %d", name, pid)

	count := 0
	for w.Running() {
		if err := emit(s.Probe(ctx, pid)); err != nil {
			return err
		}
		count++
		if err := sleep(ctx, s.opts.Delay); err != nil {
			return err
		}
	}

	if err := w.Wait(); err != nil {
		utils.Warn("workload %s exited: %v", name, err)
	}
	utils.Debug("workload %s finished after %d samples", name, count)
	return nil
}

// Probe takes one sample of pid. A failing probe leaves its fields null.
func (s *Sampler) Probe(ctx context.Context, pid int) model.Sample {
	sample := model.Sample{Timestamp: model.Timestamp(s.now())}

	stats, err := s.process.Stats(ctx, pid)
	if err != nil {
		utils.Debug("process probe failed: %v", err)
	} else if stats != nil {
		sample.CPUUsage = model.Float(stats.CPUUsage)
		sample.RAM = model.Int(stats.RAM)
	}

	if s.gpu == nil {
		return sample
	}
	gpuProc, err := s.gpu.ProcessStats(ctx, pid)
	if err != nil {
		utils.Debug("gpu process probe failed: %v", err)
		return sample
	}
	if gpuProc == nil {
		return sample
	}
	sample.GPURAM = model.Int(gpuProc.GPURAM)

	device, err := s.gpu.DeviceStats(ctx, gpuProc.GPUUUID)
	if err != nil {
		utils.Debug("gpu device probe failed: %v", err)
	} else if device != nil {
		sample.GPUUsage = model.Float(device.GPUUsage)
	}
	return sample
}

// DiscoverPid polls finder up to retries times, pausing delay between
// attempts.
func DiscoverPid(ctx context.Context, finder probe.PidFinder, name string, retries int, delay time.Duration) (int, error) {
	for attempt := 1; attempt <= retries; attempt++ {
		pid, err := finder.FindPid(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("failed to find pid of %q: %w", name, err)
		}
		if pid > 0 {
			return pid, nil
		}
		if attempt == retries {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return 0, err
		}
	}
	return 0, &PidNotFoundError{Name: name, Attempts: retries}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
