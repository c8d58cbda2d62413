package workerpool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/schedexec/pkg/common/validation"
	"github.com/vnykmshr/schedexec/pkg/metrics"
)

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	name     string
	registry atomic.Pointer[metrics.Registry]
	enabled  atomic.Bool
}

var _ metrics.Instrumentable = (*MetricsPool)(nil)

// NewWithMetrics creates a new worker pool with metrics enabled.
// Each call uses its own Prometheus registry to avoid duplicate registration.
func NewWithMetrics(workerCount int, name string) (Pool, error) {
	return NewWithConfigAndMetrics(Config{
		WorkerCount: workerCount,
	}, name, metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})
}

// NewWithConfigAndMetrics creates a new worker pool with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Pool, error) {
	basePool, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return basePool, nil
	}

	return Instrument(basePool, name, registryFor(metricsConfig)), nil
}

// Instrument wraps an existing pool so that every task submitted through
// the returned MetricsPool is measured in registry under name.
func Instrument(pool Pool, name string, registry *metrics.Registry) *MetricsPool {
	mp := &MetricsPool{
		pool: pool,
		name: name,
	}
	mp.registry.Store(registry)
	mp.enabled.Store(true)

	// Initialize metrics
	mp.updateMetrics()

	return mp
}

func registryFor(config metrics.Config) *metrics.Registry {
	if config.Registry == nil && config.Namespace == "" && config.Labels == nil {
		return metrics.DefaultRegistry
	}
	return metrics.NewRegistryWithConfig(config)
}

// updateMetrics updates the current state metrics.
func (mp *MetricsPool) updateMetrics() {
	if !mp.enabled.Load() {
		return
	}

	reg := mp.registry.Load()
	reg.WorkerPoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	reg.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	reg.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueSize()))
}

// Submit wraps the task to collect metrics and submits it to the underlying pool.
func (mp *MetricsPool) Submit(task Task) error {
	if err := validation.ValidateNotNil("workerpool", "task", task); err != nil {
		return err
	}

	wrappedTask := &metricsTask{
		original:   task,
		pool:       mp,
		submitTime: time.Now(),
	}

	err := mp.pool.Submit(wrappedTask)
	mp.updateMetrics()

	return err
}

// metricsTask wraps a Task to collect execution metrics.
type metricsTask struct {
	original   Task
	pool       *MetricsPool
	submitTime time.Time
}

// Execute runs the original task and records metrics.
func (mt *metricsTask) Execute(ctx context.Context) (err error) {
	start := time.Now()
	enabled := mt.pool.enabled.Load()
	reg := mt.pool.registry.Load()

	if enabled {
		reg.TaskQueueWait.WithLabelValues(mt.pool.name).Observe(start.Sub(mt.submitTime).Seconds())
		mt.pool.updateMetrics()
	}

	// Record even when the task panics; the worker recovers it afterwards.
	defer func() {
		if !enabled {
			return
		}
		r := recover()

		reg.TaskExecutionDuration.WithLabelValues(mt.pool.name).Observe(time.Since(start).Seconds())
		reg.TasksExecuted.WithLabelValues(mt.pool.name).Inc()
		if err != nil || r != nil {
			reg.TasksFailed.WithLabelValues(mt.pool.name).Inc()
		} else {
			reg.TasksCompleted.WithLabelValues(mt.pool.name).Inc()
		}

		if r != nil {
			panic(r)
		}
	}()

	return mt.original.Execute(ctx)
}

// Unwrap returns the task originally submitted.
func (mt *metricsTask) Unwrap() Task {
	return mt.original
}

// Shutdown initiates graceful shutdown of the pool.
func (mp *MetricsPool) Shutdown() {
	mp.pool.Shutdown()
	mp.updateMetrics()
}

// ShutdownWithTimeout shuts down the pool with a timeout.
func (mp *MetricsPool) ShutdownWithTimeout(timeout time.Duration) error {
	err := mp.pool.ShutdownWithTimeout(timeout)
	mp.updateMetrics()
	return err
}

// Size returns the current number of workers.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueSize returns the current number of queued tasks.
func (mp *MetricsPool) QueueSize() int {
	queueSize := mp.pool.QueueSize()

	if mp.enabled.Load() {
		mp.registry.Load().WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(queueSize))
	}

	return queueSize
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	activeWorkers := mp.pool.ActiveWorkers()

	if mp.enabled.Load() {
		mp.registry.Load().WorkerPoolActive.WithLabelValues(mp.name).Set(float64(activeWorkers))
	}

	return activeWorkers
}

// TotalSubmitted returns the total number of tasks submitted.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalCompleted returns the total number of tasks completed.
func (mp *MetricsPool) TotalCompleted() int64 {
	return mp.pool.TotalCompleted()
}

// TotalFailed returns the total number of tasks that failed.
func (mp *MetricsPool) TotalFailed() int64 {
	return mp.pool.TotalFailed()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	if config.Registry != nil || config.Namespace != "" || config.Labels != nil {
		mp.registry.Store(metrics.NewRegistryWithConfig(config))
	}
	mp.enabled.Store(config.Enabled)
	mp.updateMetrics()

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled.Store(false)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled.Load()
}
