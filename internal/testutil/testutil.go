package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertNotEqual fails the test if got == want
func AssertNotEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got == want {
		t.Fatalf("got %v, want anything else", got)
	}
}

// Eventually polls cond every interval until it returns true or timeout
// elapses, failing the test in the latter case.
func Eventually(t *testing.T, cond func() bool, timeout, interval time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(interval)
	}
}

// EventuallyWithContext polls cond every interval until it returns true or
// ctx is done.
func EventuallyWithContext(t *testing.T, ctx context.Context, cond func() bool, interval time.Duration) {
	t.Helper()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if cond() {
			return
		}
		select {
		case <-ctx.Done():
			t.Fatalf("condition not met: %v", ctx.Err())
		case <-ticker.C:
		}
	}
}

// AssertEventually is Eventually with TestTimeout and a 10ms poll interval.
func AssertEventually(t *testing.T, cond func() bool) {
	t.Helper()
	Eventually(t, cond, TestTimeout, 10*time.Millisecond)
}

// WaitForInt32 waits until *addr equals want.
func WaitForInt32(t *testing.T, addr *int32, want int32, timeout time.Duration) {
	t.Helper()
	Eventually(t, func() bool {
		return atomic.LoadInt32(addr) == want
	}, timeout, time.Millisecond)
}

// WaitForInt64 waits until *addr equals want.
func WaitForInt64(t *testing.T, addr *int64, want int64, timeout time.Duration) {
	t.Helper()
	Eventually(t, func() bool {
		return atomic.LoadInt64(addr) == want
	}, timeout, time.Millisecond)
}
