package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	n  *atomic.Int32
	wg *sync.WaitGroup
}

func (j *countingJob) Execute(context.Context) error {
	j.n.Add(1)
	j.wg.Done()
	return nil
}

func TestWorkerPool_ExecutesSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(context.Background())
	defer pool.Close()

	var n atomic.Int32
	var wg sync.WaitGroup
	const jobs = 20
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		if err := pool.Submit(&countingJob{n: &n, wg: &wg}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not finish in time")
	}
	if got := n.Load(); got != jobs {
		t.Fatalf("expected %d executions, got %d", jobs, got)
	}
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx)
	cancel()

	var n atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	err := pool.Submit(&countingJob{n: &n, wg: &wg})
	if err == nil {
		// A job may still slip into the buffered queue before workers see
		// the cancelled context; both outcomes are acceptable, but a nil
		// error with a drained context must not hang the caller.
		return
	}
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWorkerPool_SubmitRacingCloseDoesNotPanic(t *testing.T) {
	pool := NewWorkerPool(context.Background())

	var n atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	var producers sync.WaitGroup
	for i := 0; i < 50; i++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			<-start
			wg.Add(1)
			if err := pool.Submit(&countingJob{n: &n, wg: &wg}); err != nil {
				wg.Done()
			}
		}()
	}

	close(start)
	pool.Close()
	producers.Wait()
}

func TestWorkerPool_SizePositive(t *testing.T) {
	pool := NewWorkerPool(context.Background())
	defer pool.Close()
	if pool.Size() < 1 {
		t.Fatalf("pool must have at least one worker, got %d", pool.Size())
	}
}
