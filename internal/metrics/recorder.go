// Package metrics exposes live benchmark samples to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxdcmn/rsgbench/internal/model"
)

type Recorder struct {
	registry *prometheus.Registry

	cpuUsage prometheus.Gauge
	ram      prometheus.Gauge
	gpuUsage prometheus.Gauge
	gpuRAM   prometheus.Gauge
	samples  prometheus.Counter
}

// NewRecorder registers the sample gauges, labelled with the benchmarked
// image and task, on a dedicated registry.
func NewRecorder(image, task string) *Recorder {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"image": image, "task": task}
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		cpuUsage: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "rsgbench_cpu_usage",
			Help:        "CPU usage of the benchmarked process as a fraction of one core.",
			ConstLabels: labels,
		}),
		ram: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "rsgbench_ram_bytes",
			Help:        "Resident memory of the benchmarked process.",
			ConstLabels: labels,
		}),
		gpuUsage: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "rsgbench_gpu_usage",
			Help:        "Utilisation of the GPU running the benchmarked process.",
			ConstLabels: labels,
		}),
		gpuRAM: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "rsgbench_gpu_ram_bytes",
			Help:        "GPU memory held by the benchmarked process.",
			ConstLabels: labels,
		}),
		samples: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rsgbench_samples_total",
			Help:        "Samples taken so far.",
			ConstLabels: labels,
		}),
	}
}

// Observe updates the gauges from s. Null fields leave the previous value.
func (r *Recorder) Observe(s model.Sample) {
	r.samples.Inc()
	if s.CPUUsage != nil {
		r.cpuUsage.Set(*s.CPUUsage)
	}
	if s.RAM != nil {
		r.ram.Set(float64(*s.RAM))
	}
	if s.GPUUsage != nil {
		r.gpuUsage.Set(*s.GPUUsage)
	}
	if s.GPURAM != nil {
		r.gpuRAM.Set(float64(*s.GPURAM))
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
