package probe

import (
	"context"
	"strconv"
	"strings"
)

// PidFinder resolves a named workload to a host pid.
type PidFinder interface {
	// FindPid returns 0 while the pid is not (yet) known.
	FindPid(ctx context.Context, name string) (int, error)
}

// DockerInspect looks up the host pid of a running container.
type DockerInspect struct {
	Runner Runner
}

func NewDockerInspect() *DockerInspect {
	return &DockerInspect{Runner: ExecRunner{}}
}

func (d *DockerInspect) FindPid(ctx context.Context, name string) (int, error) {
	out, err := d.Runner.Output(ctx, "docker", "inspect", "--format", "{{.State.Pid}}", name)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		// container not created yet
		return 0, nil
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || pid <= 0 {
		return 0, nil
	}
	return pid, nil
}
