package scheduler

import (
	"fmt"
	"time"

	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
)

// run is the timer goroutine. It sleeps until the earliest deadline or a
// wake signal, and hands due tasks to the pool. The scheduler lock is never
// held across Submit.
func (s *scheduler) run() {
	defer close(s.loopDone)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)

	for {
		s.mu.Lock()
		if s.State() != StateRunning {
			s.mu.Unlock()
			return
		}

		head, ok := s.pending.peek()
		if !ok {
			s.mu.Unlock()
			<-s.wake
			continue
		}

		if wait := head.nextRun.Sub(s.now()); wait > 0 {
			s.mu.Unlock()
			timer.Reset(wait)
			select {
			case <-timer.C:
			case <-s.wake:
				stopTimer(timer)
			}
			continue
		}

		d, _ := s.pending.pop()
		s.recordPending()
		s.mu.Unlock()

		s.dispatch(d)
	}
}

// dispatch submits one due execution. A rejected submit is logged and the
// loop keeps going; periodic tasks stay armed.
func (s *scheduler) dispatch(d dispatch) {
	lag := s.now().Sub(d.deadline)
	err := s.pool.Submit(d.task)

	if s.metrics != nil {
		if err != nil {
			s.metrics.DispatchRejected.WithLabelValues(s.name).Inc()
		} else {
			s.metrics.TasksDispatched.WithLabelValues(s.name).Inc()
			s.metrics.DispatchLag.WithLabelValues(s.name).Observe(lag.Seconds())
		}
	}

	if err != nil {
		opErr := gferrors.NewOperationError("scheduler", "dispatch", err).
			WithContext(fmt.Sprintf("task %d", d.id))
		s.log.Warn().Err(opErr).Uint64("task", uint64(d.id)).Msg("worker pool rejected task")
		return
	}

	s.log.Debug().Uint64("task", uint64(d.id)).Dur("lag", lag).Bool("last", d.last).Msg("task dispatched")
}

// stopTimer stops t and drains a value that fired before Stop.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
