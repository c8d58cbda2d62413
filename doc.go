/*
Package schedexec provides a scheduled task executor for Go applications.

Task Scheduling (pkg/scheduling):
  - workerpool: Fixed set of workers draining a FIFO queue
  - scheduler: Delayed, periodic and cron tasks dispatched by one timer goroutine
  - lazy: Deferred computations evaluated once by their first caller

Supporting packages:
  - metrics: Prometheus instrumentation for schedulers and pools
  - common/errors: Sentinel and structured errors shared by all packages

Example usage:

	import (
		"github.com/vnykmshr/schedexec/pkg/scheduling/scheduler"
		"github.com/vnykmshr/schedexec/pkg/scheduling/workerpool"
	)

	s, _ := scheduler.New(4) // 4 workers
	defer s.Close()

	id, _ := s.SchedulePeriodic(workerpool.Func(refresh), 0, time.Minute)
	s.Cancel(id)
*/
package schedexec
