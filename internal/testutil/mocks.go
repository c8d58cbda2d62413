package testutil

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

// Recorder captures labelled events with their timestamps from any number
// of goroutines. Scheduler tests use it to check dispatch order and spacing.
type Recorder struct {
	mu     sync.Mutex
	start  time.Time
	labels []string
	times  []time.Time
}

// NewRecorder creates a Recorder whose offsets are measured from now.
func NewRecorder() *Recorder {
	return &Recorder{start: time.Now()}
}

// Record appends label with the current time.
func (r *Recorder) Record(label string) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = append(r.labels, label)
	r.times = append(r.times, now)
}

// Func returns a function that records label when called.
func (r *Recorder) Func(label string) func() {
	return func() { r.Record(label) }
}

// Labels returns a copy of the recorded labels in arrival order.
func (r *Recorder) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Count returns the number of recorded events.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.labels)
}

// Offsets returns each event's time relative to the recorder's creation.
func (r *Recorder) Offsets() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.times))
	for i, ts := range r.times {
		out[i] = ts.Sub(r.start)
	}
	return out
}

// Gaps returns the durations between consecutive events.
func (r *Recorder) Gaps() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.times) < 2 {
		return nil
	}
	out := make([]time.Duration, 0, len(r.times)-1)
	for i := 1; i < len(r.times); i++ {
		out = append(out, r.times[i].Sub(r.times[i-1]))
	}
	return out
}

// AssertLabels fails the test unless the recorded labels equal want.
func (r *Recorder) AssertLabels(t *testing.T, want ...string) {
	t.Helper()
	got := r.Labels()
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}

// MockWriter is a goroutine-safe io.Writer that keeps everything written to
// it. Tests hand it to zerolog to inspect log output.
type MockWriter struct {
	buf        bytes.Buffer
	mu         sync.Mutex
	writeCount int
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeCount++
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// Reset clears the buffer and the write counter.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.buf.Reset()
	mw.writeCount = 0
}
