package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
	"github.com/vnykmshr/schedexec/pkg/common/validation"
	"github.com/vnykmshr/schedexec/pkg/metrics"
	"github.com/vnykmshr/schedexec/pkg/scheduling/workerpool"
)

// TaskID identifies a scheduled task within one scheduler. IDs are assigned
// in strictly increasing order starting at 1.
type TaskID uint64

// Kind describes how a task is re-armed after it fires.
type Kind int

const (
	// KindOnce tasks fire a single time.
	KindOnce Kind = iota
	// KindPeriodic tasks fire every Period after their first run.
	KindPeriodic
	// KindCron tasks fire on the deadlines of a cron schedule.
	KindCron
)

func (k Kind) String() string {
	switch k {
	case KindOnce:
		return "once"
	case KindPeriodic:
		return "periodic"
	case KindCron:
		return "cron"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the scheduler lifecycle state. Transitions only go forward:
// Running, Stopping, Stopped.
type State int32

const (
	StateRunning State = iota
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// TaskInfo is a read-only snapshot of a pending task.
type TaskInfo struct {
	ID      TaskID
	Kind    Kind
	NextRun time.Time
	Delay   time.Duration
	Period  time.Duration // Zero for one-shot and cron tasks
	Cron    string        // Cron expression, cron tasks only
	Created time.Time
	Runs    uint64 // Executions dispatched so far
}

// Scheduler runs tasks on a worker pool at their deadlines.
type Scheduler interface {
	// ScheduleOnce runs task once after delay. Equivalent to
	// SchedulePeriodic(task, delay, 0).
	ScheduleOnce(task workerpool.Task, delay time.Duration) (TaskID, error)

	// SchedulePeriodic runs task after delay and then every period.
	// A zero period makes it a one-shot task.
	SchedulePeriodic(task workerpool.Task, delay, period time.Duration) (TaskID, error)

	// ScheduleCron runs task on the deadlines of a cron expression.
	ScheduleCron(cronExpr string, task workerpool.Task) (TaskID, error)

	// Cancel removes a pending task. Unknown or finished ids are ignored,
	// and executions already handed to the pool are not affected.
	Cancel(id TaskID)

	// Pending returns the pending tasks in dispatch order.
	Pending() []TaskInfo

	// Len returns the number of pending tasks.
	Len() int

	// State returns the lifecycle state.
	State() State

	// Pool returns the worker pool executing dispatched tasks.
	Pool() workerpool.Pool

	// Shutdown drops every pending task, stops the timer goroutine and
	// waits for it. The worker pool is left running.
	Shutdown()

	// Close calls Shutdown and then drains and stops the worker pool if
	// the scheduler created it.
	Close()
}

// Config holds scheduler configuration.
type Config struct {
	// WorkerCount sizes the worker pool the scheduler creates when
	// WorkerPool is nil. Must be greater than 0 in that case.
	WorkerCount int

	// WorkerPool executes dispatched tasks. If nil, the scheduler creates
	// and owns a pool of WorkerCount workers.
	WorkerPool workerpool.Pool

	// FailureHandler is installed on the pool the scheduler creates.
	FailureHandler func(workerID int, task workerpool.Task, err error)

	// Location is used to evaluate cron expressions (default: time.Local).
	Location *time.Location

	// Logger receives scheduler logs. The zero value discards everything.
	Logger zerolog.Logger

	// Name labels logs and metrics (default: "default").
	Name string

	// Metrics enables Prometheus instrumentation of the scheduler and of
	// the pool it creates.
	Metrics *metrics.Registry
}

// scheduler owns the pending set and the timer goroutine.
type scheduler struct {
	pool       workerpool.Pool
	ownPool    bool
	location   *time.Location
	cronParser cron.Parser
	log        zerolog.Logger
	name       string
	metrics    *metrics.Registry
	now        func() time.Time

	// mu guards pending, nextID and state transitions.
	mu      sync.Mutex
	pending *pendingSet
	nextID  TaskID
	state   atomic.Int32

	// wake holds at most one token; a send never blocks.
	wake       chan struct{}
	loopDone   chan struct{}
	terminated chan struct{}
}

// New creates a scheduler backed by a new pool of workerCount workers.
func New(workerCount int) (Scheduler, error) {
	return NewWithConfig(Config{WorkerCount: workerCount})
}

// NewWithConfig creates a scheduler with custom configuration and starts
// its timer goroutine.
func NewWithConfig(cfg Config) (Scheduler, error) {
	name := cfg.Name
	if name == "" {
		name = "default"
	}

	log := cfg.Logger.With().Str("component", "scheduler").Str("scheduler", name).Logger()

	pool := cfg.WorkerPool
	ownPool := false
	if pool == nil {
		if err := validation.ValidatePositive("scheduler", "WorkerCount", cfg.WorkerCount); err != nil {
			return nil, err
		}
		p, err := workerpool.NewWithConfig(workerpool.Config{
			WorkerCount:    cfg.WorkerCount,
			FailureHandler: cfg.FailureHandler,
			Logger:         cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		pool = p
		if cfg.Metrics != nil {
			pool = workerpool.Instrument(p, name, cfg.Metrics)
		}
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	s := &scheduler{
		pool:       pool,
		ownPool:    ownPool,
		location:   location,
		cronParser: newCronParser(),
		log:        log,
		name:       name,
		metrics:    cfg.Metrics,
		now:        time.Now,
		pending:    newPendingSet(),
		wake:       make(chan struct{}, 1),
		loopDone:   make(chan struct{}),
		terminated: make(chan struct{}),
	}
	s.state.Store(int32(StateRunning))

	go s.run()

	s.log.Debug().Int("workers", pool.Size()).Bool("own_pool", ownPool).Msg("scheduler started")
	return s, nil
}

func (s *scheduler) ScheduleOnce(task workerpool.Task, delay time.Duration) (TaskID, error) {
	return s.SchedulePeriodic(task, delay, 0)
}

func (s *scheduler) SchedulePeriodic(task workerpool.Task, delay, period time.Duration) (TaskID, error) {
	if err := s.checkRunning(); err != nil {
		return 0, err
	}
	if err := validation.ValidateNotNil("scheduler", "task", task); err != nil {
		return 0, err
	}
	if err := validation.ValidateNonNegativeDuration("scheduler", "delay", delay); err != nil {
		return 0, err
	}
	if err := validation.ValidateNonNegativeDuration("scheduler", "period", period); err != nil {
		return 0, err
	}

	return s.insert(&entry{
		task:   task,
		delay:  delay,
		period: period,
	}, func(now time.Time) time.Time {
		return now.Add(delay)
	})
}

// insert assigns an id and deadline to e and adds it to the pending set,
// waking the timer goroutine if e becomes the new head.
func (s *scheduler) insert(e *entry, deadline func(now time.Time) time.Time) (TaskID, error) {
	s.mu.Lock()
	if err := s.checkRunning(); err != nil {
		s.mu.Unlock()
		return 0, err
	}

	s.nextID++
	now := s.now()
	e.id = s.nextID
	e.created = now
	e.nextRun = deadline(now)

	head, ok := s.pending.peek()
	earlier := !ok || entryLess(e, head)
	s.pending.insert(e)
	s.recordPending()

	// The timer goroutine may re-arm e as soon as the lock is released.
	id, kind, nextRun := e.id, e.kind(), e.nextRun
	s.mu.Unlock()

	if earlier {
		s.signal()
	}

	if s.metrics != nil {
		s.metrics.TasksScheduled.WithLabelValues(s.name, kind.String()).Inc()
	}
	s.log.Debug().Uint64("task", uint64(id)).Stringer("kind", kind).
		Time("next_run", nextRun).Msg("task scheduled")

	return id, nil
}

func (s *scheduler) Cancel(id TaskID) {
	s.mu.Lock()
	head, hasHead := s.pending.peek()
	_, removed := s.pending.remove(id)
	if removed {
		s.recordPending()
	}
	s.mu.Unlock()

	if !removed {
		return
	}
	if hasHead && head.id == id {
		s.signal()
	}

	if s.metrics != nil {
		s.metrics.TasksCancelled.WithLabelValues(s.name).Inc()
	}
	s.log.Debug().Uint64("task", uint64(id)).Msg("task cancelled")
}

func (s *scheduler) Pending() []TaskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.snapshot()
}

func (s *scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len()
}

func (s *scheduler) State() State {
	return State(s.state.Load())
}

func (s *scheduler) Pool() workerpool.Pool {
	return s.pool
}

func (s *scheduler) Shutdown() {
	s.mu.Lock()
	if s.State() != StateRunning {
		s.mu.Unlock()
		<-s.terminated
		return
	}
	s.state.Store(int32(StateStopping))
	dropped := s.pending.clear()
	s.recordPending()
	s.mu.Unlock()

	s.signal()
	<-s.loopDone

	s.mu.Lock()
	s.state.Store(int32(StateStopped))
	s.mu.Unlock()
	close(s.terminated)

	s.log.Info().Int("dropped", dropped).Msg("scheduler stopped")
}

func (s *scheduler) Close() {
	s.Shutdown()
	if s.ownPool {
		s.pool.Shutdown()
	}
}

// checkRunning fails with ErrExecutorStopped once shutdown has begun. It is
// checked before argument validation so a stopped scheduler always reports
// that it is stopped.
func (s *scheduler) checkRunning() error {
	if s.State() != StateRunning {
		return fmt.Errorf("cannot schedule task: %w", gferrors.ErrExecutorStopped)
	}
	return nil
}

// recordPending publishes the pending set size. Callers hold s.mu so that
// updates are never applied out of order.
func (s *scheduler) recordPending() {
	if s.metrics != nil {
		s.metrics.TasksPending.WithLabelValues(s.name).Set(float64(s.pending.Len()))
	}
}

// signal wakes the timer goroutine without blocking.
func (s *scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
