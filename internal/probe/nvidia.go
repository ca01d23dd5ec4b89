package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type GPUProcessStats struct {
	Pid     int
	GPUUUID string
	GPURAM  int64
}

type GPUDeviceStats struct {
	UUID        string
	TotalRAM    int64
	GPUUsage    float64
	MemoryUsage float64
}

type GPUProbe interface {
	// ProcessStats returns nil without error when pid holds no GPU context.
	ProcessStats(ctx context.Context, pid int) (*GPUProcessStats, error)
	// DeviceStats returns nil without error when no device has the uuid.
	DeviceStats(ctx context.Context, uuid string) (*GPUDeviceStats, error)
}

// NvidiaSMI queries NVIDIA GPUs through nvidia-smi.
type NvidiaSMI struct {
	Runner Runner
}

func NewNvidiaSMI() *NvidiaSMI {
	return &NvidiaSMI{Runner: ExecRunner{}}
}

func (n *NvidiaSMI) ProcessStats(ctx context.Context, pid int) (*GPUProcessStats, error) {
	out, err := n.Runner.Output(ctx, "nvidia-smi", "--format=csv", "--query-compute-apps=pid,gpu_uuid,used_memory")
	if err != nil {
		return nil, fmt.Errorf("nvidia-smi compute apps: %w", err)
	}
	for _, record := range parseCSV(out) {
		if len(record) != 3 {
			return nil, fmt.Errorf("unexpected compute apps record %q", strings.Join(record, ", "))
		}
		found, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("unexpected compute apps pid %q: %w", record[0], err)
		}
		if found != pid {
			continue
		}
		ram, err := ParseMemory(record[2])
		if err != nil {
			return nil, err
		}
		return &GPUProcessStats{
			Pid:     found,
			GPUUUID: strings.TrimSpace(record[1]),
			GPURAM:  ram,
		}, nil
	}
	return nil, nil
}

func (n *NvidiaSMI) DeviceStats(ctx context.Context, uuid string) (*GPUDeviceStats, error) {
	out, err := n.Runner.Output(ctx, "nvidia-smi", "--format=csv", "--query-gpu=gpu_uuid,memory.total,utilization.gpu,utilization.memory")
	if err != nil {
		return nil, fmt.Errorf("nvidia-smi gpus: %w", err)
	}
	for _, record := range parseCSV(out) {
		if len(record) != 4 {
			return nil, fmt.Errorf("unexpected gpu record %q", strings.Join(record, ", "))
		}
		if strings.TrimSpace(record[0]) != uuid {
			continue
		}
		total, err := ParseMemory(record[1])
		if err != nil {
			return nil, err
		}
		gpuUsage, err := ParsePercent(record[2])
		if err != nil {
			return nil, err
		}
		memUsage, err := ParsePercent(record[3])
		if err != nil {
			return nil, err
		}
		return &GPUDeviceStats{
			UUID:        uuid,
			TotalRAM:    total,
			GPUUsage:    gpuUsage,
			MemoryUsage: memUsage,
		}, nil
	}
	return nil, nil
}
