package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/vnykmshr/schedexec/pkg/common/errors"
	"github.com/vnykmshr/schedexec/pkg/common/validation"
)

// Submit adds a task to the pool for execution.
// Tasks run with context.Background(); the pool never cancels a running task.
func (p *workerPool) Submit(task Task) error {
	if err := validation.ValidateNotNil("workerpool", "task", task); err != nil {
		return err
	}

	p.mu.Lock()
	if p.isShutdown {
		p.mu.Unlock()
		return fmt.Errorf("cannot submit task: %w", errors.ErrPoolStopped)
	}
	p.queue.PushBack(task)
	p.totalSubmitted++
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// Shutdown initiates a graceful shutdown of the pool and waits for it.
func (p *workerPool) Shutdown() {
	<-p.beginShutdown()
}

// ShutdownWithTimeout shuts down the pool, waiting at most timeout.
func (p *workerPool) ShutdownWithTimeout(timeout time.Duration) error {
	done := p.beginShutdown()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		p.log.Warn().Dur("timeout", timeout).Int("queued", p.QueueSize()).
			Msg("shutdown timed out, workers still draining")
		return fmt.Errorf("worker pool shutdown: %w", errors.ErrTimeout)
	}
}

// beginShutdown marks the pool stopped and wakes every worker. The returned
// channel is closed once all workers have exited.
func (p *workerPool) beginShutdown() <-chan struct{} {
	p.mu.Lock()
	first := !p.isShutdown
	p.isShutdown = true
	queued := p.queue.Len()
	p.mu.Unlock()

	if first {
		p.log.Debug().Int("queued", queued).Msg("worker pool draining")
		p.cond.Broadcast()

		go func() {
			p.workerWg.Wait()
			p.doneOnce.Do(func() { close(p.done) })
			p.log.Debug().Msg("worker pool stopped")
		}()
	}

	return p.done
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeWorkers
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *workerPool) TotalSubmitted() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalSubmitted
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalCompleted
}

// TotalFailed returns the number of tasks that failed.
func (p *workerPool) TotalFailed() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalFailed
}

// next blocks until a task is available or the pool is stopped with an
// empty queue. The second result is false when the worker should exit.
func (p *workerPool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.Len() == 0 && !p.isShutdown {
		p.cond.Wait()
	}
	if p.queue.Len() == 0 {
		// Stopped and drained
		return nil, false
	}

	task := p.queue.PopFront()
	p.activeWorkers++
	return task, true
}

// finish records the outcome of one execution.
func (p *workerPool) finish(failed bool) {
	p.mu.Lock()
	p.activeWorkers--
	p.totalCompleted++
	if failed {
		p.totalFailed++
	}
	p.mu.Unlock()
}

// run is the main loop for a worker.
func (w *worker) run() {
	defer w.pool.workerWg.Done()

	if h := w.pool.config.OnWorkerStart; h != nil {
		w.guard("OnWorkerStart", func() { h(w.id) })
	}
	if h := w.pool.config.OnWorkerStop; h != nil {
		defer w.guard("OnWorkerStop", func() { h(w.id) })
	}

	for {
		task, ok := w.pool.next()
		if !ok {
			return
		}
		w.executeTask(task)
	}
}

// executeTask executes a single task. Errors and panics never escape it.
// Hooks see the caller's task even when a decorator wrapped it on submit.
func (w *worker) executeTask(queued Task) {
	start := time.Now()
	task := Unwrap(queued)
	var err error

	// Handle panics during task execution
	defer func() {
		if r := recover(); r != nil {
			err = &errors.PanicError{Value: r, Stack: debug.Stack()}
		}

		result := Result{
			Task:     task,
			Error:    err,
			Duration: time.Since(start),
			WorkerID: w.id,
		}

		w.pool.finish(err != nil)
		if err != nil {
			w.guard("failure handler", func() { w.reportFailure(task, err) })
		}
		if h := w.pool.config.OnTaskComplete; h != nil {
			w.guard("OnTaskComplete", func() { h(w.id, result) })
		}
	}()

	if h := w.pool.config.OnTaskStart; h != nil {
		w.guard("OnTaskStart", func() { h(w.id, task) })
	}

	err = queued.Execute(context.Background())
}

// reportFailure routes a task failure to the configured handler, falling
// back to an error log.
func (w *worker) reportFailure(task Task, err error) {
	if h := w.pool.config.FailureHandler; h != nil {
		h(w.id, task, err)
		return
	}

	event := w.pool.log.Error().Int("worker", w.id).Err(err)
	if perr, ok := err.(*errors.PanicError); ok {
		event = event.Bytes("stack", perr.Stack)
	}
	event.Msg("task failed")
}

// guard runs a user hook, logging instead of propagating its panic so the
// worker keeps running.
func (w *worker) guard(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.log.Error().Int("worker", w.id).Str("hook", name).
				Interface("panic", r).Msg("hook panicked")
		}
	}()
	fn()
}
