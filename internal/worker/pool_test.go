package worker

import (
	"context"
	"testing"
	"time"
)

func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	invoker := NewInvoker(InvokerConfig{
		AFCall:      fakeCSPP(t, "0"),
		WorkDirBase: t.TempDir(),
		Logger:      discardLogger(),
	})
	return NewPool(PoolConfig{
		Invoker:   invoker,
		Collector: NewCollector(false),
		Workers:   workers,
		QueueSize: 8,
		Logger:    discardLogger(),
	})
}

func TestPool_SingleSlotProcessesAllJobs(t *testing.T) {
	pool := newTestPool(t, 1)
	defer pool.Stop()

	// More jobs than slots: the queue holds them and a single slot
	// works through all of them, no result is lost
	var handles []*Handle
	for n := 0; n < 3; n++ {
		job := NewJob([]string{"/data/SVI01.h5"}, map[string]any{"orbit_number": n})
		handles = append(handles, pool.Submit(job))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workDirs := make(map[string]bool)
	for i, h := range handles {
		result, err := h.Wait(ctx)
		if err != nil {
			t.Fatalf("job %d: %v", i, err)
		}
		if result.WorkDir == "" {
			t.Errorf("job %d: empty workdir", i)
		}
		if workDirs[result.WorkDir] {
			t.Errorf("job %d: workdir %s reused", i, result.WorkDir)
		}
		workDirs[result.WorkDir] = true

		if len(result.Artifacts) != 1 {
			t.Errorf("job %d: got %d artifacts, want 1", i, len(result.Artifacts))
		}
	}
}

func TestPool_FailedJobResolvesWithEmptyResult(t *testing.T) {
	invoker := NewInvoker(InvokerConfig{
		AFCall:      "/nonexistent/cspp.sh",
		WorkDirBase: t.TempDir(),
		Logger:      discardLogger(),
	})
	pool := NewPool(PoolConfig{
		Invoker:   invoker,
		Collector: NewCollector(false),
		Workers:   1,
		Logger:    discardLogger(),
	})
	defer pool.Stop()

	handle := pool.Submit(NewJob([]string{"/data/SVI01.h5"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Failure isolation: the handle still resolves, with no artifacts
	result, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Artifacts) != 0 {
		t.Errorf("expected no artifacts, got %v", result.Artifacts)
	}
}

func TestHandle_Ready(t *testing.T) {
	pool := newTestPool(t, 1)
	defer pool.Stop()

	handle := pool.Submit(NewJob([]string{"/data/SVI01.h5"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := handle.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handle.Ready() {
		t.Error("handle should be ready after Wait returned")
	}
}

func TestHandle_WaitRespectsContext(t *testing.T) {
	// A handle that never resolves must not block Wait forever
	handle := &Handle{done: make(chan struct{})}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := handle.Wait(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestPool_StopIsIdempotent(t *testing.T) {
	pool := newTestPool(t, 2)
	pool.Stop()
	pool.Stop()
}
