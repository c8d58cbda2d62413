/*
Package lazy provides deferred computations that run on the caller's goroutine.

A Task records a function and evaluates it only when Result is first called.
The evaluation happens synchronously on the calling goroutine, never on a
worker pool; later calls return the cached outcome without running the
function again:

	t := lazy.New(func() (int, error) {
		return expensive(), nil
	})

	v, err := t.Result() // runs expensive()
	v, err = t.Result()  // cached

Concurrent first calls are serialized: exactly one caller evaluates, the rest
wait for it and read the same outcome. Errors are cached like values, and a
panic is captured as *errors.PanicError and returned to every caller.

ResultContext lets a waiting caller stop waiting:

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	v, err := t.ResultContext(ctx)

Scheduler-scoped lazy tasks, which refuse creation after shutdown, are made
with scheduler.ScheduleLazy.
*/
package lazy
