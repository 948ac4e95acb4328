package worker

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"storyreel/internal/models"
)

// TestStopWaitsForInFlightRun: shutdown blocks until the run a worker has
// picked up finishes on its own, and the run still completes normally.
func TestStopWaitsForInFlightRun(t *testing.T) {
	env := newTestEnv(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	env.processor.encoder.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		once.Do(func() { close(started) })
		<-release
		return nil, os.WriteFile(args[len(args)-1], []byte("mp4"), 0644)
	}

	pool := NewPool(4, env.tracker, env.processor, zerolog.Nop())
	pool.Start(1)

	req := env.newRequest(t, "vid-inflight")
	if _, err := pool.Submit(req); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("run never started")
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a run was in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}

	report, err := env.tracker.Status("vid-inflight")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Status != models.PollCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", report.Status, report.Error)
	}
}

// TestStopFailsQueuedRequests: a request still sitting in the queue at
// shutdown is failed rather than left running forever.
func TestStopFailsQueuedRequests(t *testing.T) {
	env := newTestEnv(t)

	// No workers started, so the request stays queued.
	pool := NewPool(4, env.tracker, env.processor, zerolog.Nop())

	req := env.newRequest(t, "vid-queued")
	if _, err := pool.Submit(req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pool.Stop()

	report, err := env.tracker.Status("vid-queued")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Status != models.PollFailed {
		t.Fatalf("status = %s, want failed", report.Status)
	}
	if report.Error == "" {
		t.Error("abandoned job has empty error message")
	}
}
