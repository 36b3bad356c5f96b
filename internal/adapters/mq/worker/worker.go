// Package worker runs reconcile jobs pulled off the intake queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/hiscores/internal/adapters/mq/queue"
	"github.com/okian/hiscores/pkg/logger"
	"github.com/okian/hiscores/pkg/metrics"
)

const defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()

// Processor handles one job. Errors are logged and counted; the job is not retried.
type Processor interface {
	Process(ctx context.Context, j queue.Job) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, j queue.Job) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, j queue.Job) error { //nolint:gocritic // hugeParam
	return f(ctx, j)
}

// Source defines how workers receive jobs.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its source is drained or it is told to stop.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	source    Source
	processor Processor
	name      string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(source Source, processor Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		source:    source,
		processor: processor,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) stop() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.processor.Process(ctx, j); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "process")
		w.logger.Error(ctx, "reconcile failed",
			logger.String("player", j.Player.ID),
			logger.Time("created_at", j.Snapshot.CreatedAt),
			logger.Error(err),
		)
	}
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   queue.Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. workerCount < 1 uses a CPU-derived default.
func NewPool(workerCount int, q queue.Queue, processor Processor, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	for i := range p.workers {
		name := "worker-" + strconv.Itoa(i)
		p.workers[i] = NewInMemoryWorker(q, processor, WithName(name), WithLogger(p.logger.Named(name)))
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// Stop stops every worker without draining the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.stop()
	}
	for _, w := range p.workers {
		<-w.done
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue and waits for the workers to drain it. When ctx
// expires first the remaining workers are stopped and ctx's error returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	defer metrics.UpdateWorkerActiveCount(0)

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "pool drain timed out", logger.Int("worker_id", i), logger.Int("queued", p.queue.Len()))
			for _, rest := range p.workers {
				rest.stop()
			}
			return fmt.Errorf("drain: %w", ctx.Err())
		}
	}
	return nil
}
