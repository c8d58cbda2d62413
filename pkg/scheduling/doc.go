/*
Package scheduling groups the task execution primitives of schedexec.

  - workerpool: Fixed worker pool for concurrent task execution
  - scheduler: Time-based task scheduling on top of a worker pool
  - lazy: Tasks evaluated on demand by the caller

Worker Pool:

The worker pool runs tasks in submission order on a fixed set of workers:

	pool, _ := workerpool.New(4)
	defer pool.Shutdown() // drains the queue

	pool.Submit(workerpool.Func(func() {
		// Do work
	}))

Task Scheduler:

The scheduler hands tasks to a pool when their deadline arrives:

	s, _ := scheduler.New(4)
	defer s.Close()

	// One-time task
	s.ScheduleOnce(task, time.Minute)

	// Recurring task, first run immediately
	s.SchedulePeriodic(task, 0, time.Hour)

	// Cron-style scheduling
	s.ScheduleCron("0 9 * * MON-FRI", task) // Weekdays at 9 AM

Lazy Tasks:

	total, _ := scheduler.ScheduleLazy(s, computeTotal)
	v, err := total.Result() // runs computeTotal here, once
*/
package scheduling
