package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/bench"
	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/metrics"
	"github.com/maxdcmn/rsgbench/internal/model"
	"github.com/maxdcmn/rsgbench/internal/probe"
	"github.com/maxdcmn/rsgbench/internal/registry"
	"github.com/maxdcmn/rsgbench/internal/sampler"
	"github.com/maxdcmn/rsgbench/internal/task"
	"github.com/maxdcmn/rsgbench/internal/utils"
)

var benchFlags struct {
	inputSize   int
	batchSize   int
	saveModel   string
	saveIndex   int
	metricsAddr string
	noGPU       bool
}

var (
	samplerOpts = sampler.NewOptions()
	dockerOpts  = bench.NewDockerOptions()
)

var benchCmd = &cobra.Command{
	Use:   "bench <image> <data_dir> <task>",
	Short: "Run an inference container on a task and stream resource samples (NDJSON)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, dataDir := args[0], args[1]
		t, err := task.Parse(args[2])
		if err != nil {
			return err
		}

		opts := &sampler.Options{
			Delay:         flagOr(cmd, "delay", samplerOpts.Delay, cfg.Sampler.Delay),
			PidRetries:    flagOr(cmd, "pid-retries", samplerOpts.PidRetries, cfg.Sampler.PidRetries),
			PidRetryDelay: flagOr(cmd, "pid-retry-delay", samplerOpts.PidRetryDelay, cfg.Sampler.PidRetryDelay),
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		docker := &bench.DockerOptions{
			Runtime:   flagOr(cmd, "runtime", dockerOpts.Runtime, cfg.Docker.Runtime),
			Volume:    flagOr(cmd, "volume-path", dockerOpts.Volume, cfg.Docker.Volume),
			Device:    flagOr(cmd, "device", dockerOpts.Device, cfg.Docker.Device),
			ModelPath: flagOr(cmd, "model-path", dockerOpts.ModelPath, cfg.Docker.ModelPath),
		}

		input, err := bench.Input(dataDir, t, benchFlags.inputSize)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		ctx := cmd.Context()
		name := bench.ContainerName(image)
		workload := sampler.NewExecWorkload(docker.Command(ctx, image, name, t, benchFlags.batchSize), input, io.Discard)

		recorder := metrics.NewRecorder(image, t.String())
		if benchFlags.metricsAddr != "" {
			stop, err := serveMetrics(benchFlags.metricsAddr, recorder.Handler())
			if err != nil {
				return err
			}
			defer stop()
		}

		var gpu probe.GPUProbe
		if !benchFlags.noGPU {
			gpu = probe.NewNvidiaSMI()
		}
		s := sampler.New(opts, probe.NewPS(), gpu, probe.NewDockerInspect())

		enc := jsonl.NewEncoder(os.Stdout)
		var run model.Run
		utils.Info("benchmarking %s on %s as %s", image, t, name)
		err = s.Run(ctx, workload, name, func(sample model.Sample) error {
			recorder.Observe(sample)
			run = append(run, sample)
			return enc.Encode(sample)
		})
		if ctx.Err() != nil || errors.Is(err, sampler.ErrPidNotFound) {
			killContainer(name)
		}
		if err != nil {
			return err
		}

		if benchFlags.saveModel != "" {
			return saveRun(benchFlags.saveModel, t, run)
		}
		return nil
	},
}

func killContainer(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bench.Kill(ctx, name); err != nil {
		utils.Warn("failed to kill container %s: %v", name, err)
		return
	}
	utils.Info("killed container %s", name)
}

func saveRun(modelName string, t task.Task, run model.Run) error {
	index := benchFlags.saveIndex
	if index <= 0 {
		records, err := registry.List(cfg.RegistryDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to list registry: %w", err)
		}
		index = registry.NextIndex(records, modelName, t.String(), benchFlags.inputSize, benchFlags.batchSize)
	}
	record := registry.Record{
		Dir:       cfg.RegistryDir,
		Model:     modelName,
		Task:      t.String(),
		InputSize: benchFlags.inputSize,
		BatchSize: benchFlags.batchSize,
		Index:     index,
	}
	if err := registry.Save(record, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	utils.Info("saved %d samples to %s", len(run), record.Path())
	return nil
}

// serveMetrics exposes handler on addr until the returned stop is called.
func serveMetrics(addr string, handler http.Handler) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("metrics server: %v", err)
		}
	}()
	utils.Info("serving metrics on http://%s/metrics", ln.Addr())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func init() {
	benchCmd.Flags().IntVar(&benchFlags.inputSize, "input-size", 10000, "number of input items fed to the container")
	benchCmd.Flags().IntVar(&benchFlags.batchSize, "batch-size", 128, "inference batch size")
	benchCmd.Flags().StringVar(&benchFlags.saveModel, "save-model", "", "also store the run in the registry under this model name")
	benchCmd.Flags().IntVar(&benchFlags.saveIndex, "save-index", 0, "registry index for the stored run (default next free)")
	benchCmd.Flags().StringVar(&benchFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while sampling")
	benchCmd.Flags().BoolVar(&benchFlags.noGPU, "no-gpu", false, "skip nvidia-smi probes")
	samplerOpts.AddFlags(benchCmd.Flags())
	dockerOpts.AddFlags(benchCmd.Flags())
}
