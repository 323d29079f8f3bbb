package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/alde/comically/pkg/progress"
)

// Job represents a unit of work to be processed
type Job interface {
	Process(ctx context.Context) error
	ID() string
}

// Result contains the outcome of processing a job
type Result struct {
	JobID string
	Error error
}

type workerIDKey struct{}

// WorkerID returns the index of the pool worker running the job that received
// ctx, or 0 outside a pool.
func WorkerID(ctx context.Context) int {
	id, _ := ctx.Value(workerIDKey{}).(int)
	return id
}

// Pool manages a fixed set of worker goroutines.
type Pool struct {
	workerCount int
	jobs        chan Job
	results     chan Result
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	progress    *progress.Tracker
}

// NewPool creates a pool of workerCount workers, one per CPU when
// workerCount is not positive.
func NewPool(workerCount int) *Pool {
	return NewPoolWithProgress(workerCount, nil)
}

// NewPoolWithProgress creates a pool that reports job starts and completions
// to tracker. A nil tracker disables reporting.
func NewPoolWithProgress(workerCount int, tracker *progress.Tracker) *Pool {
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}

	return &Pool{
		workerCount: workerCount,
		jobs:        make(chan Job, workerCount*2),
		results:     make(chan Result, workerCount*2),
		progress:    tracker,
	}
}

// Start begins processing jobs. Cancelling ctx stops workers after their
// current job.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop waits for queued jobs to drain and closes the results channel.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.cancel()

	if p.progress != nil {
		p.progress.Finish()
	}
}

// Submit adds a job to the processing queue
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	case <-p.ctx.Done():
		p.results <- Result{
			JobID: job.ID(),
			Error: p.ctx.Err(),
		}
	}
}

// Results returns the results channel
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Run starts the pool, feeds it jobs and blocks until every job has a
// result. Results arrive in completion order.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	p.Start(ctx)

	go func() {
		for _, job := range jobs {
			p.Submit(job)
		}
		p.Stop()
	}()

	results := make([]Result, 0, len(jobs))
	for r := range p.Results() {
		results = append(results, r)
	}
	return results
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	ctx := context.WithValue(p.ctx, workerIDKey{}, id)

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}

			if p.progress != nil {
				p.progress.UpdateWorker(id, job.ID(), false)
			}

			err := job.Process(ctx)

			if p.progress != nil {
				p.progress.UpdateWorker(id, job.ID(), true)
			}

			p.results <- Result{
				JobID: job.ID(),
				Error: err,
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workerCount
}
