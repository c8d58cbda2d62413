package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/schedexec/internal/testutil"
	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
	"github.com/vnykmshr/schedexec/pkg/metrics"
	"github.com/vnykmshr/schedexec/pkg/scheduling/workerpool"
)

func newTestScheduler(t *testing.T, workers int) Scheduler {
	t.Helper()
	s, err := New(workers)
	testutil.AssertNoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func counter(n *int32) workerpool.Task {
	return workerpool.Func(func() { atomic.AddInt32(n, 1) })
}

// waitIdle waits until the pool has nothing queued or running.
func waitIdle(t *testing.T, pool workerpool.Pool) {
	t.Helper()
	testutil.AssertEventually(t, func() bool {
		return pool.QueueSize() == 0 && pool.ActiveWorkers() == 0
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		workerCount int
		expectErr   bool
	}{
		{"single worker", 1, false},
		{"several workers", 4, false},
		{"zero workers", 0, true},
		{"negative workers", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.workerCount)
			if tt.expectErr {
				testutil.AssertError(t, err)
				testutil.AssertEqual(t, errors.Is(err, gferrors.ErrInvalidConfiguration), true)
				testutil.AssertEqual(t, s == nil, true)
				return
			}

			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, s.State(), StateRunning)
			testutil.AssertEqual(t, s.Pool().Size(), tt.workerCount)
			testutil.AssertEqual(t, s.Len(), 0)
			s.Close()
		})
	}
}

func TestSharedPoolIsNotOwned(t *testing.T) {
	pool, err := workerpool.New(2)
	testutil.AssertNoError(t, err)
	defer pool.Shutdown()

	s, err := NewWithConfig(Config{WorkerPool: pool})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, s.Pool(), pool)

	s.Close()

	var ran int32
	testutil.AssertNoError(t, pool.Submit(counter(&ran)))
	testutil.WaitForInt32(t, &ran, 1, time.Second)
}

func TestIDsIncreaseFromOne(t *testing.T) {
	s := newTestScheduler(t, 1)

	var n int32
	for want := TaskID(1); want <= 5; want++ {
		id, err := s.ScheduleOnce(counter(&n), time.Hour)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, id, want)
	}

	id, err := s.ScheduleCron("@daily", counter(&n))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, id, TaskID(6))
}

func TestZeroDelayRunsInScheduleOrder(t *testing.T) {
	s := newTestScheduler(t, 1)
	rec := testutil.NewRecorder()

	var want []string
	for i := 1; i <= 10; i++ {
		label := fmt.Sprintf("task-%d", i)
		want = append(want, label)
		_, err := s.ScheduleOnce(workerpool.Func(rec.Func(label)), 0)
		testutil.AssertNoError(t, err)
	}

	testutil.AssertEventually(t, func() bool { return rec.Count() == len(want) })
	rec.AssertLabels(t, want...)
}

func TestDeadlineOrder(t *testing.T) {
	s := newTestScheduler(t, 1)
	rec := testutil.NewRecorder()

	for _, d := range []int{90, 30, 60} {
		_, err := s.ScheduleOnce(workerpool.Func(rec.Func(fmt.Sprint(d))), time.Duration(d)*time.Millisecond)
		testutil.AssertNoError(t, err)
	}

	testutil.AssertEventually(t, func() bool { return rec.Count() == 3 })
	rec.AssertLabels(t, "30", "60", "90")
}

func TestScheduleOnceWaitsForDelay(t *testing.T) {
	s := newTestScheduler(t, 1)

	start := time.Now()
	ran := make(chan time.Time, 1)
	_, err := s.ScheduleOnce(workerpool.Func(func() { ran <- time.Now() }), 50*time.Millisecond)
	testutil.AssertNoError(t, err)

	select {
	case at := <-ran:
		if elapsed := at.Sub(start); elapsed < 50*time.Millisecond {
			t.Fatalf("task ran after %v, want at least 50ms", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	// One-shot tasks leave the pending set once dispatched.
	testutil.AssertEqual(t, s.Len(), 0)
}

func TestEarlierDeadlineWakesTimer(t *testing.T) {
	s := newTestScheduler(t, 1)

	var late, early int32
	_, err := s.ScheduleOnce(counter(&late), time.Hour)
	testutil.AssertNoError(t, err)
	_, err = s.ScheduleOnce(counter(&early), 10*time.Millisecond)
	testutil.AssertNoError(t, err)

	testutil.WaitForInt32(t, &early, 1, 500*time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt32(&late), int32(0))
	testutil.AssertEqual(t, s.Len(), 1)
}

func TestSchedulePeriodic(t *testing.T) {
	s := newTestScheduler(t, 2)
	rec := testutil.NewRecorder()

	id, err := s.SchedulePeriodic(workerpool.Func(rec.Func("tick")), 0, 100*time.Millisecond)
	testutil.AssertNoError(t, err)

	// Runs at 0ms, 100ms and 200ms.
	time.Sleep(250 * time.Millisecond)
	if got := rec.Count(); got < 3 {
		t.Fatalf("periodic task ran %d times in 250ms, want at least 3", got)
	}
	for i, gap := range rec.Gaps() {
		if gap < 60*time.Millisecond || gap > 140*time.Millisecond {
			t.Fatalf("gap %d = %v, want about 100ms", i, gap)
		}
	}

	info := s.Pending()
	testutil.AssertEqual(t, len(info), 1)
	testutil.AssertEqual(t, info[0].ID, id)
	testutil.AssertEqual(t, info[0].Kind, KindPeriodic)
	testutil.AssertEqual(t, info[0].Period, 100*time.Millisecond)
	if info[0].Runs < 3 {
		t.Fatalf("Runs = %d, want at least 3", info[0].Runs)
	}
}

func TestPeriodicDelayAppliesOnce(t *testing.T) {
	s := newTestScheduler(t, 1)
	rec := testutil.NewRecorder()

	_, err := s.SchedulePeriodic(workerpool.Func(rec.Func("tick")), 150*time.Millisecond, 50*time.Millisecond)
	testutil.AssertNoError(t, err)

	testutil.AssertEventually(t, func() bool { return rec.Count() >= 3 })

	offsets := rec.Offsets()
	if offsets[0] < 150*time.Millisecond {
		t.Fatalf("first run at %v, want at least 150ms", offsets[0])
	}
	// Later runs follow the period, not the initial delay.
	if gap := offsets[2] - offsets[0]; gap >= 250*time.Millisecond {
		t.Fatalf("two periods took %v, want about 100ms", gap)
	}
}

func TestCancelPeriodicStopsFurtherRuns(t *testing.T) {
	s := newTestScheduler(t, 1)

	var n int32
	id, err := s.SchedulePeriodic(counter(&n), 100*time.Millisecond, 100*time.Millisecond)
	testutil.AssertNoError(t, err)

	// Runs at 100ms and 200ms, cancelled before the one due at 300ms.
	time.Sleep(250 * time.Millisecond)
	s.Cancel(id)
	waitIdle(t, s.Pool())

	testutil.AssertEqual(t, atomic.LoadInt32(&n), int32(2))
	time.Sleep(250 * time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt32(&n), int32(2))
	testutil.AssertEqual(t, s.Len(), 0)
}

func TestCancelAfterFirstRun(t *testing.T) {
	s := newTestScheduler(t, 1)

	var n int32
	id, err := s.SchedulePeriodic(counter(&n), 0, 80*time.Millisecond)
	testutil.AssertNoError(t, err)

	testutil.WaitForInt32(t, &n, 1, time.Second)
	s.Cancel(id)
	waitIdle(t, s.Pool())
	after := atomic.LoadInt32(&n)

	time.Sleep(200 * time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt32(&n), after)
}

func TestCancelBeforeRun(t *testing.T) {
	s := newTestScheduler(t, 1)

	var n int32
	id, err := s.ScheduleOnce(counter(&n), 50*time.Millisecond)
	testutil.AssertNoError(t, err)
	s.Cancel(id)
	testutil.AssertEqual(t, s.Len(), 0)

	time.Sleep(120 * time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt32(&n), int32(0))
}

func TestCancelHeadLetsNextRun(t *testing.T) {
	s := newTestScheduler(t, 1)

	var first, second int32
	id, err := s.ScheduleOnce(counter(&first), 40*time.Millisecond)
	testutil.AssertNoError(t, err)
	_, err = s.ScheduleOnce(counter(&second), 80*time.Millisecond)
	testutil.AssertNoError(t, err)

	s.Cancel(id)

	testutil.WaitForInt32(t, &second, 1, time.Second)
	testutil.AssertEqual(t, atomic.LoadInt32(&first), int32(0))
}

func TestCancelUnknownID(t *testing.T) {
	s := newTestScheduler(t, 1)

	var n int32
	id, err := s.ScheduleOnce(counter(&n), 0)
	testutil.AssertNoError(t, err)
	testutil.WaitForInt32(t, &n, 1, time.Second)

	// Neither an id that never existed nor one that already finished has
	// any effect.
	s.Cancel(0)
	s.Cancel(12345)
	s.Cancel(id)
	s.Cancel(id)

	testutil.AssertEqual(t, s.State(), StateRunning)
	testutil.AssertEqual(t, atomic.LoadInt32(&n), int32(1))
}

func TestScheduleValidation(t *testing.T) {
	s := newTestScheduler(t, 1)
	task := workerpool.Func(func() {})

	tests := []struct {
		name string
		call func() (TaskID, error)
	}{
		{"nil task", func() (TaskID, error) { return s.ScheduleOnce(nil, 0) }},
		{"negative delay", func() (TaskID, error) { return s.ScheduleOnce(task, -time.Second) }},
		{"negative period", func() (TaskID, error) { return s.SchedulePeriodic(task, 0, -time.Second) }},
		{"nil func task", func() (TaskID, error) { return s.ScheduleOnce(workerpool.Func(nil), 0) }},
		{"nil TaskFunc", func() (TaskID, error) { return s.SchedulePeriodic(workerpool.TaskFunc(nil), 0, time.Second) }},
		{"nil cron task", func() (TaskID, error) { return s.ScheduleCron("@hourly", nil) }},
		{"nil func cron task", func() (TaskID, error) { return s.ScheduleCron("@hourly", workerpool.Func(nil)) }},
		{"empty cron", func() (TaskID, error) { return s.ScheduleCron("", task) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.call()
			testutil.AssertError(t, err)
			testutil.AssertEqual(t, gferrors.IsValidationError(err), true)
			testutil.AssertEqual(t, errors.Is(err, gferrors.ErrInvalidConfiguration), true)
			testutil.AssertEqual(t, id, TaskID(0))
		})
	}

	// Rejected calls do not consume ids.
	id, err := s.ScheduleOnce(task, time.Hour)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, id, TaskID(1))
}

func TestPendingSnapshot(t *testing.T) {
	s := newTestScheduler(t, 1)
	task := workerpool.Func(func() {})

	before := time.Now()
	_, err := s.ScheduleOnce(task, 3*time.Hour)
	testutil.AssertNoError(t, err)
	_, err = s.SchedulePeriodic(task, time.Hour, 2*time.Hour)
	testutil.AssertNoError(t, err)
	_, err = s.ScheduleOnce(task, 2*time.Hour)
	testutil.AssertNoError(t, err)

	info := s.Pending()
	testutil.AssertEqual(t, len(info), 3)
	testutil.AssertEqual(t, s.Len(), 3)

	testutil.AssertEqual(t, info[0].ID, TaskID(2))
	testutil.AssertEqual(t, info[0].Kind, KindPeriodic)
	testutil.AssertEqual(t, info[0].Delay, time.Hour)
	testutil.AssertEqual(t, info[1].ID, TaskID(3))
	testutil.AssertEqual(t, info[2].ID, TaskID(1))
	testutil.AssertEqual(t, info[2].Kind, KindOnce)

	for i, ti := range info {
		if ti.Created.Before(before) {
			t.Fatalf("info[%d].Created = %v, before test start", i, ti.Created)
		}
		if i > 0 && ti.NextRun.Before(info[i-1].NextRun) {
			t.Fatalf("snapshot not ordered by NextRun: %v", info)
		}
	}
}

func TestShutdownIdempotent(t *testing.T) {
	s, err := New(2)
	testutil.AssertNoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Shutdown()
		}()
	}
	wg.Wait()

	testutil.AssertEqual(t, s.State(), StateStopped)
	s.Shutdown()
	s.Close()
	s.Close()
	testutil.AssertEqual(t, s.State(), StateStopped)
}

func TestShutdownRejectsNewTasks(t *testing.T) {
	s := newTestScheduler(t, 1)
	s.Shutdown()

	task := workerpool.Func(func() {})

	_, err := s.ScheduleOnce(task, 0)
	testutil.AssertEqual(t, errors.Is(err, gferrors.ErrExecutorStopped), true)

	_, err = s.SchedulePeriodic(task, 0, time.Second)
	testutil.AssertEqual(t, errors.Is(err, gferrors.ErrExecutorStopped), true)

	_, err = s.ScheduleCron("@hourly", task)
	testutil.AssertEqual(t, errors.Is(err, gferrors.ErrExecutorStopped), true)
	testutil.AssertEqual(t, gferrors.IsStopped(err), true)

	// A stopped scheduler reports that before looking at the arguments.
	invalid := []func() (TaskID, error){
		func() (TaskID, error) { return s.ScheduleOnce(nil, 0) },
		func() (TaskID, error) { return s.SchedulePeriodic(task, -time.Second, 0) },
		func() (TaskID, error) { return s.ScheduleCron("not a cron", task) },
		func() (TaskID, error) { return s.ScheduleCron("", nil) },
	}
	for i, call := range invalid {
		_, err := call()
		if !errors.Is(err, gferrors.ErrExecutorStopped) {
			t.Fatalf("call %d: err = %v, want ErrExecutorStopped", i, err)
		}
		testutil.AssertEqual(t, gferrors.IsValidationError(err), false)
	}
}

func TestShutdownDropsPendingKeepsPool(t *testing.T) {
	s := newTestScheduler(t, 1)

	var n int32
	for i := 0; i < 3; i++ {
		_, err := s.ScheduleOnce(counter(&n), time.Hour)
		testutil.AssertNoError(t, err)
	}
	_, err := s.SchedulePeriodic(counter(&n), time.Hour, time.Minute)
	testutil.AssertNoError(t, err)

	s.Shutdown()
	testutil.AssertEqual(t, s.Len(), 0)
	testutil.AssertEqual(t, len(s.Pending()), 0)

	// The pool is still usable until Close.
	testutil.AssertNoError(t, s.Pool().Submit(counter(&n)))
	testutil.WaitForInt32(t, &n, 1, time.Second)
}

func TestShutdownDoesNotInterruptRunningTask(t *testing.T) {
	s, err := New(1)
	testutil.AssertNoError(t, err)

	started := make(chan struct{})
	var finished int32
	_, err = s.ScheduleOnce(workerpool.TaskFunc(func(ctx context.Context) error {
		close(started)
		time.Sleep(80 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
		return nil
	}), 0)
	testutil.AssertNoError(t, err)

	<-started
	s.Shutdown()
	testutil.AssertEqual(t, s.State(), StateStopped)

	// Close drains the owned pool.
	s.Close()
	testutil.AssertEqual(t, atomic.LoadInt32(&finished), int32(1))
}

func TestCloseDrainsQueuedExecutions(t *testing.T) {
	s, err := New(1)
	testutil.AssertNoError(t, err)

	var n int32
	for i := 0; i < 5; i++ {
		_, err := s.ScheduleOnce(workerpool.Func(func() {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&n, 1)
		}), 0)
		testutil.AssertNoError(t, err)
	}
	testutil.AssertEventually(t, func() bool { return s.Pool().TotalSubmitted() == 5 })

	s.Close()
	testutil.AssertEqual(t, atomic.LoadInt32(&n), int32(5))
}

func TestScheduleFromRunningTask(t *testing.T) {
	s := newTestScheduler(t, 1)

	var inner int32
	_, err := s.ScheduleOnce(workerpool.TaskFunc(func(ctx context.Context) error {
		_, err := s.ScheduleOnce(counter(&inner), 0)
		return err
	}), 0)
	testutil.AssertNoError(t, err)

	testutil.WaitForInt32(t, &inner, 1, time.Second)
}

func TestConcurrentScheduling(t *testing.T) {
	s := newTestScheduler(t, 4)

	const goroutines, perGoroutine = 8, 25
	var n int32
	ids := make(chan TaskID, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id, err := s.ScheduleOnce(counter(&n), time.Duration(i)*time.Millisecond)
				if err != nil {
					t.Error(err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[TaskID]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}

	testutil.WaitForInt32(t, &n, goroutines*perGoroutine, 2*time.Second)
}

func TestConcurrentScheduleCancelShutdown(t *testing.T) {
	s, err := New(4)
	testutil.AssertNoError(t, err)

	const goroutines, perGoroutine = 8, 200
	var n int32

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				delay := time.Duration(i%3) * time.Millisecond
				period := time.Duration(i%2) * time.Millisecond
				id, err := s.SchedulePeriodic(counter(&n), delay, period)
				if errors.Is(err, gferrors.ErrExecutorStopped) {
					return
				}
				if err != nil {
					t.Error(err)
					return
				}
				if i%4 == 0 {
					s.Cancel(id)
				}
				_ = s.Pending()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		s.Shutdown()
	}()

	wg.Wait()
	s.Close()

	testutil.AssertEqual(t, s.State(), StateStopped)
	testutil.AssertEqual(t, s.Len(), 0)
	testutil.AssertEqual(t, s.Pool().QueueSize(), 0)
}

func TestFailureHandlerSeesScheduledTaskWithMetrics(t *testing.T) {
	got := make(chan workerpool.Task, 1)

	s, err := NewWithConfig(Config{
		WorkerCount: 1,
		Name:        "hooks",
		Metrics:     metrics.NewRegistry(prometheus.NewRegistry()),
		FailureHandler: func(_ int, task workerpool.Task, _ error) {
			got <- task
		},
	})
	testutil.AssertNoError(t, err)
	defer s.Close()

	task := &errTask{err: errors.New("boom")}
	_, err = s.ScheduleOnce(task, 0)
	testutil.AssertNoError(t, err)

	select {
	case handled := <-got:
		testutil.AssertEqual(t, handled, workerpool.Task(task))
	case <-time.After(time.Second):
		t.Fatal("failure handler not called")
	}
}

type errTask struct {
	err error
}

func (e *errTask) Execute(context.Context) error {
	return e.err
}

func TestFailingTasksReachFailureHandler(t *testing.T) {
	var failures int32
	var panics int32

	s, err := NewWithConfig(Config{
		WorkerCount: 1,
		FailureHandler: func(workerID int, task workerpool.Task, err error) {
			atomic.AddInt32(&failures, 1)
			if gferrors.IsPanic(err) {
				atomic.AddInt32(&panics, 1)
			}
		},
	})
	testutil.AssertNoError(t, err)
	defer s.Close()

	_, err = s.ScheduleOnce(workerpool.TaskFunc(func(ctx context.Context) error {
		return errors.New("boom")
	}), 0)
	testutil.AssertNoError(t, err)
	_, err = s.ScheduleOnce(workerpool.Func(func() { panic("kaboom") }), 0)
	testutil.AssertNoError(t, err)

	testutil.WaitForInt32(t, &failures, 2, time.Second)
	testutil.AssertEqual(t, atomic.LoadInt32(&panics), int32(1))

	// The worker survives and the scheduler keeps dispatching.
	var n int32
	_, err = s.ScheduleOnce(counter(&n), 0)
	testutil.AssertNoError(t, err)
	testutil.WaitForInt32(t, &n, 1, time.Second)
}

func TestRejectedDispatchIsLogged(t *testing.T) {
	pool, err := workerpool.New(1)
	testutil.AssertNoError(t, err)
	pool.Shutdown()

	out := testutil.NewMockWriter()
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	s, err := NewWithConfig(Config{
		WorkerPool: pool,
		Name:       "rejecting",
		Logger:     zerolog.New(out),
		Metrics:    reg,
	})
	testutil.AssertNoError(t, err)
	defer s.Close()

	_, err = s.SchedulePeriodic(workerpool.Func(func() {}), 0, 10*time.Millisecond)
	testutil.AssertNoError(t, err)

	testutil.AssertEventually(t, func() bool {
		return promtest.ToFloat64(reg.DispatchRejected.WithLabelValues("rejecting")) >= 2
	})

	// Periodic tasks stay armed while the pool rejects them.
	testutil.AssertEqual(t, s.State(), StateRunning)
	testutil.AssertEqual(t, s.Len(), 1)

	logs := out.String()
	testutil.AssertEqual(t, strings.Contains(logs, "worker pool rejected task"), true)
	testutil.AssertEqual(t, strings.Contains(logs, "scheduler.dispatch failed"), true)
}

func TestSchedulerMetrics(t *testing.T) {
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	s, err := NewWithConfig(Config{
		WorkerCount: 2,
		Name:        "metered",
		Metrics:     reg,
	})
	testutil.AssertNoError(t, err)
	defer s.Close()

	var n int32
	_, err = s.ScheduleOnce(counter(&n), 0)
	testutil.AssertNoError(t, err)
	_, err = s.ScheduleOnce(counter(&n), 0)
	testutil.AssertNoError(t, err)
	id, err := s.ScheduleOnce(counter(&n), time.Hour)
	testutil.AssertNoError(t, err)
	_, err = s.SchedulePeriodic(counter(&n), time.Hour, time.Hour)
	testutil.AssertNoError(t, err)
	s.Cancel(id)

	testutil.WaitForInt32(t, &n, 2, time.Second)
	waitIdle(t, s.Pool())

	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksScheduled.WithLabelValues("metered", "once")), float64(3))
	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksScheduled.WithLabelValues("metered", "periodic")), float64(1))
	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksCancelled.WithLabelValues("metered")), float64(1))
	testutil.AssertEventually(t, func() bool {
		return promtest.ToFloat64(reg.TasksDispatched.WithLabelValues("metered")) == 2
	})
	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksPending.WithLabelValues("metered")), float64(1))

	// The owned pool is instrumented under the scheduler's name.
	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksCompleted.WithLabelValues("metered")), float64(2))

	s.Shutdown()
	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksPending.WithLabelValues("metered")), float64(0))
}

func TestStateString(t *testing.T) {
	testutil.AssertEqual(t, StateRunning.String(), "running")
	testutil.AssertEqual(t, StateStopping.String(), "stopping")
	testutil.AssertEqual(t, StateStopped.String(), "stopped")
	testutil.AssertEqual(t, State(9).String(), "State(9)")

	testutil.AssertEqual(t, KindOnce.String(), "once")
	testutil.AssertEqual(t, KindPeriodic.String(), "periodic")
	testutil.AssertEqual(t, KindCron.String(), "cron")
	testutil.AssertEqual(t, Kind(7).String(), "Kind(7)")
}
