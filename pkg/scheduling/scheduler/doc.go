/*
Package scheduler runs tasks after a delay, periodically, or on a cron schedule.

A scheduler owns one timer goroutine and a pending set ordered by deadline.
The timer goroutine never runs user code: when a deadline arrives it hands the
task to a workerpool.Pool and goes back to sleep until the next deadline.

Basic Usage:

	s, err := scheduler.New(4)
	if err != nil {
		return err
	}
	defer s.Close()

	task := workerpool.Func(func() {
		fmt.Println("Task executed!")
	})

	// Run once, two seconds from now
	id, err := s.ScheduleOnce(task, 2*time.Second)

	// Run after one second and then every 30 seconds
	id, err = s.SchedulePeriodic(task, time.Second, 30*time.Second)

	// Run at the top of every hour
	id, err = s.ScheduleCron("0 * * * *", task)

	s.Cancel(id)

Ordering:

Tasks are dispatched in order of their deadline. Tasks with the same deadline
are dispatched in the order they were scheduled, since TaskIDs grow strictly.
Ordering of execution depends on the pool: with one worker, dispatch order is
execution order.

Periodic tasks are re-armed from their previous deadline, not from the moment
they ran, so they do not drift. The initial delay applies only to the first run.
If the timer goroutine falls behind, missed runs of a periodic task are
dispatched back to back until it catches up.

Shutdown:

Shutdown drops every pending task and waits for the timer goroutine to exit.
Work already handed to the pool is not affected and the pool keeps running;
shut it down separately, or call Close to do both when the scheduler created
the pool. Shutdown is idempotent and safe to call from several goroutines.

	s.Shutdown()
	s.Pool().Shutdown() // drains queued executions

After Shutdown every Schedule call fails with errors.ErrExecutorStopped.

Lazy Tasks:

ScheduleLazy returns a handle whose function runs on the first caller of
Result, never on the pool:

	total, err := scheduler.ScheduleLazy(s, func() (int, error) {
		return expensiveSum(), nil
	})
	v, err := total.Result()

Configuration:

	s, err := scheduler.NewWithConfig(scheduler.Config{
		WorkerCount: 8,
		Name:        "billing",
		Location:    time.UTC,
		Logger:      zerolog.New(os.Stderr).With().Timestamp().Logger(),
		Metrics:     metrics.DefaultRegistry,
	})

Pass Config.WorkerPool to share an existing pool between schedulers.

Thread Safety:

All Scheduler methods are safe for concurrent use, and all but Close may be
called from inside a running task. Close waits for the pool's workers, so a
task calling it on its own scheduler never returns.
*/
package scheduler
