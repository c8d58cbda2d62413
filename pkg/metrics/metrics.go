// Package metrics provides Prometheus instrumentation for schedexec components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for schedexec components.
type Registry struct {
	// Scheduler Metrics
	TasksScheduled   *prometheus.CounterVec
	TasksCancelled   *prometheus.CounterVec
	TasksDispatched  *prometheus.CounterVec
	DispatchRejected *prometheus.CounterVec
	TasksPending     *prometheus.GaugeVec
	DispatchLag      *prometheus.HistogramVec

	// Worker Pool Metrics
	TasksExecuted         *prometheus.CounterVec
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	TaskQueueWait         *prometheus.HistogramVec
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolActive      *prometheus.GaugeVec
	WorkerPoolQueued      *prometheus.GaugeVec

	// Lazy Task Metrics
	LazyEvaluations *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by schedexec components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Registry: reg})
}

// NewRegistryWithConfig creates a metrics registry honoring the namespace
// and constant labels of cfg. A nil cfg.Registry means prometheus.DefaultRegisterer.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	labels := cfg.Labels
	factory := promauto.With(reg)

	return &Registry{
		// Scheduler Metrics
		TasksScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "tasks_scheduled_total",
				Help:        "Total number of tasks scheduled",
				ConstLabels: labels,
			},
			[]string{"scheduler_name", "kind"},
		),

		TasksCancelled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "tasks_cancelled_total",
				Help:        "Total number of pending tasks removed by Cancel",
				ConstLabels: labels,
			},
			[]string{"scheduler_name"},
		),

		TasksDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "tasks_dispatched_total",
				Help:        "Total number of task executions handed to the worker pool",
				ConstLabels: labels,
			},
			[]string{"scheduler_name"},
		),

		DispatchRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "dispatch_rejected_total",
				Help:        "Total number of dispatches the worker pool refused",
				ConstLabels: labels,
			},
			[]string{"scheduler_name"},
		),

		TasksPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "tasks_pending",
				Help:        "Number of tasks waiting for their next deadline",
				ConstLabels: labels,
			},
			[]string{"scheduler_name"},
		),

		DispatchLag: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "dispatch_lag_seconds",
				Help:        "Delay between a task deadline and its dispatch",
				Buckets:     []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
				ConstLabels: labels,
			},
			[]string{"scheduler_name"},
		),

		// Worker Pool Metrics
		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_executed_total",
				Help:        "Total number of tasks executed",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_completed_total",
				Help:        "Total number of tasks completed successfully",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_failed_total",
				Help:        "Total number of tasks that returned an error or panicked",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing tasks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TaskQueueWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "task_queue_wait_seconds",
				Help:        "Time tasks spent queued before a worker picked them up",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "size",
				Help:        "Current worker pool size",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "active_workers",
				Help:        "Number of active workers",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "queued_tasks",
				Help:        "Number of queued tasks",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		// Lazy Task Metrics
		LazyEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "lazy",
				Name:        "evaluations_total",
				Help:        "Total number of lazy task evaluations by outcome",
				ConstLabels: labels,
			},
			[]string{"scheduler_name", "outcome"},
		),
	}
}
