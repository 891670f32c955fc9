package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/pkg/model"
)

// ErrNoExporter is returned when the pool has no exporter configured.
var ErrNoExporter = errors.New("no exporter configured")

// Exporter is the interface that the pool uses to export entries.
type Exporter interface {
	Export(ctx context.Context, entry model.Identifier) (*shr.Result, error)
}

// ExportFunc adapts a function to the Exporter interface.
type ExportFunc func(ctx context.Context, entry model.Identifier) (*shr.Result, error)

// Export calls f.
func (f ExportFunc) Export(ctx context.Context, entry model.Identifier) (*shr.Result, error) {
	return f(ctx, entry)
}

// Pool runs submitted jobs on a fixed set of goroutines. Results arrive on
// Results in completion order; Job.Index lets callers restore input order.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	exporter   Exporter
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// mu guards jobsChan against a send racing its close
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// NewPool starts a pool with the given number of workers. If workers <= 0,
// it defaults to runtime.NumCPU(). Jobs are exported with a context derived
// from ctx; once it is done, queued jobs are skipped.
func NewPool(ctx context.Context, exporter Exporter, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		exporter:   exporter,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit queues a job, blocking while the queue is full. It returns false
// once the pool is stopped or its context is done.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped || p.ctx.Err() != nil {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		return true
	}
}

// Results returns the channel for receiving job results. It is closed
// after Stop or Close once every queued job has finished.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// Stop stops accepting jobs. Queued jobs still run and Results is closed
// when they are done.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	close(p.jobsChan)

	go func() {
		p.wg.Wait()
		close(p.resultChan)
		close(p.done)
	}()
}

// Close cancels queued jobs, discards unread results and waits for
// the workers to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.cancel()
	p.Stop()

	go func() {
		for range p.resultChan {
		}
	}()
	<-p.done
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		if p.ctx.Err() != nil {
			continue
		}
		p.resultChan <- p.processJob(job)
	}
}

func (p *Pool) processJob(job Job) *JobResult {
	start := time.Now()

	result := &JobResult{
		ID:    job.ID,
		Index: job.Index,
		Entry: job.Entry,
	}

	if p.exporter == nil {
		result.Error = ErrNoExporter
	} else {
		result.Result, result.Error = p.exporter.Export(p.ctx, job.Entry)
	}

	result.Duration = time.Since(start).Nanoseconds()
	return result
}
