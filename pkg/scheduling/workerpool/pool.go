package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/schedexec/pkg/common/validation"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// A returned error is reported to the pool's failure handler.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Func adapts a plain function with no arguments and no result to a Task.
type Func func()

// Execute implements the Task interface for Func.
func (f Func) Execute(context.Context) error {
	f()
	return nil
}

// Unwrap returns the task a decorator such as MetricsPool was given. Tasks
// that wrap nothing are returned as is.
func Unwrap(task Task) Task {
	for {
		w, ok := task.(interface{ Unwrap() Task })
		if !ok {
			return task
		}
		task = w.Unwrap()
	}
}

// Result represents the result of a task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error that occurred during task execution.
	// A recovered panic is reported as *errors.PanicError.
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool represents a fixed-size worker pool draining a FIFO task queue.
type Pool interface {
	// Submit adds a task to the back of the queue and wakes one idle worker.
	// Returns errors.ErrPoolStopped once shutdown has been requested.
	Submit(task Task) error

	// Shutdown stops accepting tasks, lets every queued task run and blocks
	// until all workers have exited. It is safe to call more than once.
	Shutdown()

	// ShutdownWithTimeout behaves like Shutdown but stops waiting after
	// timeout and returns errors.ErrTimeout. Workers keep draining the queue.
	ShutdownWithTimeout(timeout time.Duration) error

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks submitted to the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks that finished, successfully or not.
	TotalCompleted() int64

	// TotalFailed returns the number of tasks that returned an error or panicked.
	TotalFailed() int64
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0.
	WorkerCount int

	// FailureHandler receives every task error and recovered panic.
	// If nil, failures are logged at error level on Logger.
	FailureHandler func(workerID int, task Task, err error)

	// Logger receives pool lifecycle and failure logs.
	// The zero value discards everything.
	Logger zerolog.Logger

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization (e.g., database connections).
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	// Useful for per-worker cleanup.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	// Hooks receive the submitted task, never a decorator's wrapper, and a
	// panicking hook is logged without affecting its worker.
	OnTaskStart func(workerID int, task Task)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)
}

// workerPool implements the Pool interface.
type workerPool struct {
	config Config
	log    zerolog.Logger

	// mu guards the queue and every field below it; cond is signalled on
	// submit and broadcast on shutdown.
	mu             sync.Mutex
	cond           *sync.Cond
	queue          deque.Deque[Task]
	isShutdown     bool
	activeWorkers  int
	totalSubmitted int64
	totalCompleted int64
	totalFailed    int64

	// Worker management
	workerWg sync.WaitGroup
	done     chan struct{}
	doneOnce sync.Once
}

// worker represents a single worker in the pool.
type worker struct {
	id   int
	pool *workerPool
}

// New creates a new worker pool with the specified number of workers.
func New(workerCount int) (Pool, error) {
	return NewWithConfig(Config{
		WorkerCount: workerCount,
	})
}

// NewWithConfig creates a new worker pool with the specified configuration.
func NewWithConfig(config Config) (Pool, error) {
	if err := validation.ValidatePositive("workerpool", "WorkerCount", config.WorkerCount); err != nil {
		return nil, err
	}

	pool := &workerPool{
		config: config,
		log:    config.Logger.With().Str("component", "workerpool").Logger(),
		done:   make(chan struct{}),
	}
	pool.cond = sync.NewCond(&pool.mu)

	for i := 0; i < config.WorkerCount; i++ {
		w := worker{id: i, pool: pool}
		pool.workerWg.Add(1)
		go w.run()
	}

	pool.log.Debug().Int("workers", config.WorkerCount).Msg("worker pool started")
	return pool, nil
}
