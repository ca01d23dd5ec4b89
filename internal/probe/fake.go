package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeRunner returns canned output keyed by the full command line.
type FakeRunner struct {
	mu      sync.Mutex
	Outputs map[string][]byte
	Errors  map[string]error
	Calls   []string
}

func (f *FakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, line)
	if err, ok := f.Errors[line]; ok {
		return f.Outputs[line], err
	}
	out, ok := f.Outputs[line]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", line)
	}
	return out, nil
}

// FakeProcessProbe replays Results in order and then repeats the last one.
type FakeProcessProbe struct {
	Results []*ProcessStats
	Err     error
	calls   int
}

func (f *FakeProcessProbe) Stats(context.Context, int) (*ProcessStats, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Results) == 0 {
		return nil, nil
	}
	i := min(f.calls, len(f.Results)-1)
	f.calls++
	return f.Results[i], nil
}

// FakeGPUProbe reports the same process and device stats on every call.
type FakeGPUProbe struct {
	Process    *GPUProcessStats
	Device     *GPUDeviceStats
	ProcessErr error
	DeviceErr  error
}

func (f *FakeGPUProbe) ProcessStats(context.Context, int) (*GPUProcessStats, error) {
	return f.Process, f.ProcessErr
}

func (f *FakeGPUProbe) DeviceStats(context.Context, string) (*GPUDeviceStats, error) {
	return f.Device, f.DeviceErr
}

// FakePidFinder reports 0 for the first Misses calls, then Pid.
type FakePidFinder struct {
	Pid    int
	Misses int
	Calls  int
}

func (f *FakePidFinder) FindPid(context.Context, string) (int, error) {
	f.Calls++
	if f.Calls <= f.Misses {
		return 0, nil
	}
	return f.Pid, nil
}
