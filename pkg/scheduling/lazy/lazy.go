package lazy

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
)

// ErrNilFunc is returned by Result when the task was created without a function.
var ErrNilFunc = errors.New("lazy: nil function")

// Task is a deferred computation. Its function runs at most once, on the
// goroutine of the first caller that asks for the result.
type Task[T any] struct {
	fn func() (T, error)

	mu      sync.Mutex
	started bool
	done    chan struct{}

	// value and err are written once before done is closed.
	value T
	err   error
}

// New records fn without running it.
func New[T any](fn func() (T, error)) *Task[T] {
	return &Task[T]{
		fn:   fn,
		done: make(chan struct{}),
	}
}

// Func creates a Task for a function that produces no value.
func Func(fn func()) *Task[struct{}] {
	if fn == nil {
		return New[struct{}](nil)
	}
	return New(func() (struct{}, error) {
		fn()
		return struct{}{}, nil
	})
}

// Result returns the outcome of the task, evaluating it on the calling
// goroutine if nobody has yet. Concurrent callers wait for the evaluating
// one; every caller observes the same value and error.
func (t *Task[T]) Result() (T, error) {
	return t.ResultContext(context.Background())
}

// ResultContext is like Result but lets a waiting caller give up when ctx
// is done. A caller that is already evaluating the function always finishes
// it. If ctx is done before evaluation starts, nothing is run.
func (t *Task[T]) ResultContext(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil && !t.Evaluated() {
		var zero T
		return zero, err
	}

	t.mu.Lock()
	if !t.started {
		t.started = true
		t.mu.Unlock()
		t.evaluate()
		return t.value, t.err
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Evaluated reports whether the outcome is cached, without blocking.
func (t *Task[T]) Evaluated() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *Task[T]) evaluate() {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			var zero T
			t.value = zero
			t.err = &gferrors.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	if t.fn == nil {
		t.err = ErrNilFunc
		return
	}
	t.value, t.err = t.fn()
}
