// Package worker provides the bounded-concurrency pool used to fan out
// collection and fact-check work across sources and queued tasks.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed on a pool worker.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job.
type Result interface {
	Err() error
}

// Pool runs jobs on a fixed number of workers. Submit all jobs, then
// call Wait to collect results; the pool is single-use. Results are
// drained as jobs finish, so any number of jobs may be submitted
// before Wait.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	collected []Result
	drained   chan struct{}
	wg        sync.WaitGroup
}

// NewPool creates a pool with the given worker count (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		drained: make(chan struct{}),
	}
}

// Start launches the workers and the result collector.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					result := job.Execute(ctx)
					select {
					case p.results <- result:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(p.drained)
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()
}

// Submit queues a job. Blocks when the queue is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Wait closes the queue, waits for the workers to finish, and returns
// every collected result.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	<-p.drained
	return p.collected
}
