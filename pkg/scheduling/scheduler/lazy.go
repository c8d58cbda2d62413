package scheduler

import (
	"fmt"

	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
	"github.com/vnykmshr/schedexec/pkg/common/validation"
	"github.com/vnykmshr/schedexec/pkg/scheduling/lazy"
)

// ScheduleLazy registers fn as a deferred task. Nothing is handed to the
// pool: fn runs on the goroutine of the first caller of Result, at most once.
// It fails with ErrExecutorStopped once s is shutting down.
func ScheduleLazy[T any](s Scheduler, fn func() (T, error)) (*lazy.Task[T], error) {
	if s.State() != StateRunning {
		return nil, fmt.Errorf("cannot schedule lazy task: %w", gferrors.ErrExecutorStopped)
	}
	if fn == nil {
		return nil, validation.ValidateNotNil("scheduler", "fn", nil)
	}

	if o, ok := s.(lazyObserver); ok {
		inner := fn
		fn = func() (value T, err error) {
			defer func() {
				if r := recover(); r != nil {
					o.observeLazy("panic")
					panic(r)
				}
			}()
			value, err = inner()
			if err != nil {
				o.observeLazy("error")
			} else {
				o.observeLazy("success")
			}
			return value, err
		}
	}
	return lazy.New(fn), nil
}

type lazyObserver interface {
	observeLazy(outcome string)
}

func (s *scheduler) observeLazy(outcome string) {
	if s.metrics != nil {
		s.metrics.LazyEvaluations.WithLabelValues(s.name, outcome).Inc()
	}
	s.log.Debug().Str("outcome", outcome).Msg("lazy task evaluated")
}
