// Package bench builds the containerised inference workload that the
// sampler measures.
package bench

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/maxdcmn/rsgbench/internal/task"
)

type DockerOptions struct {
	Runtime   string
	Volume    string
	Device    string
	ModelPath string
}

func NewDockerOptions() *DockerOptions {
	return &DockerOptions{
		Runtime: "nvidia",
		Device:  "cuda",
	}
}

func (o *DockerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Runtime, "runtime", o.Runtime, "docker runtime for the inference container")
	fs.StringVar(&o.Volume, "volume-path", o.Volume, "host directory mounted at /workspace")
	fs.StringVar(&o.Device, "device", o.Device, "device passed to the inference server")
	fs.StringVar(&o.ModelPath, "model-path", o.ModelPath, "model path inside the container")
}

// ContainerName derives a unique container name from image so that several
// benchmarks of one image can run side by side.
func ContainerName(image string) string {
	id, err := uuid.NewUUID()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(image, "/", "_") + "_" + id.String()[:5]
}

// Args returns the docker run arguments for one inference container.
func (o *DockerOptions) Args(image, name string, t task.Task, batchSize int) []string {
	args := []string{"run"}
	if o.Volume != "" {
		args = append(args, "--volume", o.Volume+":/workspace")
	}
	args = append(args, "--interactive", "--rm")
	if o.Runtime != "" {
		args = append(args, "--runtime", o.Runtime)
	}
	args = append(args,
		"--name", name,
		image,
		"--batch-size", strconv.Itoa(batchSize),
		"--task", t.String(),
	)
	if o.ModelPath != "" {
		args = append(args, "--model-path", o.ModelPath)
	}
	return append(args, "--device", o.Device)
}

func (o *DockerOptions) Command(ctx context.Context, image, name string, t task.Task, batchSize int) *exec.Cmd {
	return exec.CommandContext(ctx, "docker", o.Args(image, name, t, batchSize)...)
}

// Kill stops a container left behind by an interrupted benchmark.
func Kill(ctx context.Context, name string) error {
	return exec.CommandContext(ctx, "docker", "kill", name).Run()
}
