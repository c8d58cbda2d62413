// Package metrics provides Prometheus instrumentation for schedexec components.
//
// # Overview
//
// The metrics package instruments:
//   - The timer scheduler (scheduled, cancelled, dispatched tasks, pending set size, dispatch lag)
//   - Worker pools (executed, completed, failed tasks, durations, size, active workers, queue depth)
//   - Lazy tasks created through a scheduler (evaluations by outcome)
//
// # Quick Start
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewRegistry(reg)
//
//	s, err := scheduler.NewWithConfig(scheduler.Config{
//		WorkerCount: 4,
//		Name:        "jobs",
//		Metrics:     m,
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Worker pools are instrumented through the MetricsPool decorator:
//
//	pool, err := workerpool.NewWithMetrics(4, "jobs")
//
// # Available Metrics
//
// ## Scheduler Metrics
//
//   - schedexec_scheduler_tasks_scheduled_total{scheduler_name,kind}
//   - schedexec_scheduler_tasks_cancelled_total{scheduler_name}
//   - schedexec_scheduler_tasks_dispatched_total{scheduler_name}
//   - schedexec_scheduler_dispatch_rejected_total{scheduler_name}
//   - schedexec_scheduler_tasks_pending{scheduler_name}
//   - schedexec_scheduler_dispatch_lag_seconds{scheduler_name}
//
// ## Worker Pool Metrics
//
//   - schedexec_workerpool_tasks_executed_total{pool_name}
//   - schedexec_workerpool_tasks_completed_total{pool_name}
//   - schedexec_workerpool_tasks_failed_total{pool_name}
//   - schedexec_workerpool_task_duration_seconds{pool_name}
//   - schedexec_workerpool_task_queue_wait_seconds{pool_name}
//   - schedexec_workerpool_size{pool_name}
//   - schedexec_workerpool_active_workers{pool_name}
//   - schedexec_workerpool_queued_tasks{pool_name}
//
// ## Lazy Task Metrics
//
//   - schedexec_lazy_evaluations_total{scheduler_name,outcome}
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.DefaultRegisterer,
//		Namespace: "myapp", // overrides "schedexec"
//		Labels:    prometheus.Labels{"version": "1.0"},
//	}
//	m := metrics.NewRegistryWithConfig(config)
//
// Each Registry registers its collectors once; create one Registry per
// Prometheus registerer and share it between components.
package metrics
