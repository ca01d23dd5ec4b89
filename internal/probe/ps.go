package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProcessStats is an OS-level snapshot of one process.
type ProcessStats struct {
	// CPUUsage is a fraction of one core, so multi-threaded processes may exceed 1.
	CPUUsage float64
	RAM      int64
}

type ProcessProbe interface {
	// Stats returns nil without error when the process is gone.
	Stats(ctx context.Context, pid int) (*ProcessStats, error)
}

// PS probes processes with procps ps.
type PS struct {
	Runner Runner
}

func NewPS() *PS {
	return &PS{Runner: ExecRunner{}}
}

func (p *PS) Stats(ctx context.Context, pid int) (*ProcessStats, error) {
	out, err := p.Runner.Output(ctx, "ps", "--no-headers", "-q", strconv.Itoa(pid), "-o", "%cpu,rss")
	if err != nil {
		// ps exits non-zero with no output once the pid is gone
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || len(out) > 0 {
			return nil, fmt.Errorf("ps %d: %w", pid, err)
		}
		return nil, nil
	}
	return parsePS(out)
}

func parsePS(out []byte) (*ProcessStats, error) {
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) != 2 {
		return nil, fmt.Errorf("unexpected ps output: %q", string(out))
	}
	pct, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected ps cpu value %q: %w", fields[0], err)
	}
	rssKB, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected ps rss value %q: %w", fields[1], err)
	}
	return &ProcessStats{
		CPUUsage: round(pct/100, 4),
		RAM:      rssKB * 1024,
	}, nil
}
