package dispatch

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job is a unit of work the pool executes.
type Job interface {
	Execute(ctx context.Context) error
}

// WorkerPool bounds the number of invite batches delivered concurrently so a
// large console action cannot flood the upstream mail endpoint.
type WorkerPool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWorkerPool creates a pool sized from the CPU count, keeping a quarter
// of the cores free for the API server.
func NewWorkerPool(ctx context.Context) *WorkerPool {
	totalCPU := runtime.NumCPU()
	systemReserve := max(1, totalCPU/4)
	size := max(1, totalCPU-systemReserve)
	log.Info().
		Int("totalCPU", totalCPU).
		Int("workers", size).
		Msg("Dispatch worker pool initialized")
	poolCtx, cancel := context.WithCancel(ctx)

	pool := &WorkerPool{
		workers:  size,
		jobQueue: make(chan Job, size*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}

	pool.start()

	return pool
}

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			if err := job.Execute(p.ctx); err != nil {
				log.Error().Err(err).Msg("Dispatch job failed")
			}
		}
	}
}

// Submit queues a job, blocking until a worker slot frees up or the pool is
// shut down.
func (p *WorkerPool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Close stops the workers and waits for in-flight jobs to finish. The queue
// channel is never closed: a Submit racing shutdown fails on the cancelled
// context instead of panicking on a send to a closed channel. Jobs still
// buffered when the context drops are never acked, so the stream's pending
// list re-delivers them on the next start.
func (p *WorkerPool) Close() {
	p.cancel()
	p.wg.Wait()
}

// Size returns the worker count.
func (p *WorkerPool) Size() int {
	return p.workers
}
