// Package metrics exposes a spin run's progress as Prometheus metrics and a
// small JSON status endpoint.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/LISSConsulting/mainloop/internal/session"
)

// Collector turns session entries into Prometheus metrics. It owns its
// registry so several collectors can coexist in one process (tests).
type Collector struct {
	registry *prometheus.Registry

	stepsTotal   *prometheus.CounterVec
	stepDuration prometheus.Histogram
	errorsTotal  prometheus.Counter
	currentStep  prometheus.Gauge
	finished     prometheus.Gauge

	mu      sync.Mutex
	project string
	step    int
	outcome string
}

// New creates a Collector whose metrics carry project as a constant label.
func New(project string) *Collector {
	labels := prometheus.Labels{"project": project}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		project:  project,
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "spin_steps_total",
				Help:        "Total number of dispatched steps by resulting event.",
				ConstLabels: labels,
			},
			[]string{"event"},
		),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "spin_step_duration_seconds",
			Help:        "Time spent inside Step.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "spin_errors_total",
			Help:        "Total number of step errors folded into Terminate.",
			ConstLabels: labels,
		}),
		currentStep: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "spin_current_step",
			Help:        "Number of the most recent step.",
			ConstLabels: labels,
		}),
		finished: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "spin_run_finished",
			Help:        "1 once the stepper has terminated, 0 while running.",
			ConstLabels: labels,
		}),
	}
	c.registry.MustRegister(c.stepsTotal, c.stepDuration, c.errorsTotal, c.currentStep, c.finished)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Hook is a session.Recorder Hook.
func (c *Collector) Hook(entry session.LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch entry.Kind {
	case session.LogStep:
		c.stepsTotal.WithLabelValues(entry.Event).Inc()
		c.stepDuration.Observe(entry.Duration)
		c.currentStep.Set(float64(entry.Step))
		c.step = entry.Step
	case session.LogError:
		c.errorsTotal.Inc()
	case session.LogTerminate:
		c.finished.Set(1)
		c.outcome = "terminate"
	case session.LogStopped:
		c.finished.Set(1)
		c.outcome = "stopped"
	}
}

// Status is the JSON body served at /status.
type Status struct {
	Project string `json:"project"`
	Step    int    `json:"step"`
	Running bool   `json:"running"`
	Outcome string `json:"outcome,omitempty"`
}

// Status returns a snapshot of the run.
func (c *Collector) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Project: c.project,
		Step:    c.step,
		Running: c.outcome == "",
		Outcome: c.outcome,
	}
}
