/*
Package workerpool provides a fixed-size worker pool draining an unbounded FIFO queue.

A worker pool manages a fixed number of worker goroutines that execute tasks in the
order they were submitted. It is the execution backend of the scheduler package: the
timer goroutine hands every due task to a pool and never runs user code itself.

Basic usage:

	pool, err := workerpool.New(4)
	if err != nil {
		return err // errors.ErrInvalidConfiguration for a non-positive count
	}
	defer pool.Shutdown()

	task := workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	})

	if err := pool.Submit(task); err != nil {
		log.Printf("Failed to submit: %v", err)
	}

Task Interface:

Tasks implement a simple interface:

	type Task interface {
		Execute(ctx context.Context) error
	}

TaskFunc adapts func(context.Context) error, Func adapts a plain func():

	pool.Submit(workerpool.Func(func() { fmt.Println("hello") }))

Failure Handling:

A task that returns an error or panics never takes its worker down. The error
(or an *errors.PanicError carrying the recovered value and stack) is handed to
Config.FailureHandler; without a handler it is logged at error level on
Config.Logger:

	pool, err := workerpool.NewWithConfig(workerpool.Config{
		WorkerCount: 8,
		Logger:      zerolog.New(os.Stderr),
		FailureHandler: func(workerID int, task workerpool.Task, err error) {
			failures.Inc()
		},
	})

Lifecycle Callbacks:

	config := workerpool.Config{
		WorkerCount: 4,
		OnWorkerStart: func(workerID int) {
			log.Printf("Worker %d started", workerID)
		},
		OnWorkerStop: func(workerID int) {
			log.Printf("Worker %d stopped", workerID)
		},
		OnTaskStart: func(workerID int, task workerpool.Task) {
			log.Printf("Worker %d starting task", workerID)
		},
		OnTaskComplete: func(workerID int, result workerpool.Result) {
			log.Printf("Worker %d completed task in %v", workerID, result.Duration)
		},
	}

Graceful Shutdown:

Shutdown is drain-then-stop: no new task is accepted, every queued task still
runs, and the call returns once all workers have exited. Calling it again is a
no-op that waits for the same completion.

	pool.Shutdown()

	// Bounded variant; workers keep draining in the background after a timeout.
	if err := pool.ShutdownWithTimeout(30 * time.Second); errors.Is(err, gferrors.ErrTimeout) {
		log.Print("pool still draining")
	}

Monitoring and Metrics:

	fmt.Printf("Pool size: %d\n", pool.Size())
	fmt.Printf("Queue size: %d\n", pool.QueueSize())
	fmt.Printf("Active workers: %d\n", pool.ActiveWorkers())
	fmt.Printf("Total submitted: %d\n", pool.TotalSubmitted())
	fmt.Printf("Total completed: %d\n", pool.TotalCompleted())
	fmt.Printf("Total failed: %d\n", pool.TotalFailed())

Prometheus instrumentation is provided by the MetricsPool decorator
(NewWithMetrics, NewWithConfigAndMetrics, Instrument).

Thread Safety:

All pool operations are safe for concurrent use from multiple goroutines. One mutex
and condition variable guard the queue; tasks always run with the lock released.
*/
package workerpool
