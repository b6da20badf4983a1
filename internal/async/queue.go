package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"smart-invoice-extractor/constants"
	"smart-invoice-extractor/internal/extract"
)

// Job is one document to analyze.
type Job struct {
	ID          uuid.UUID
	Path        string
	Kind        constants.DocumentKind
	SubmittedAt time.Time
}

// JobResult reports one finished job. Err is set when the document's text
// could not be acquired; a failed job never stops the workers.
type JobResult struct {
	Job    Job
	Result extract.Result
	Err    error
}

// AnalyzerQueue fans document jobs out to a bounded pool of workers sharing
// one stateless Analyzer.
type AnalyzerQueue struct {
	analyzer *extract.Analyzer
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	onResult func(JobResult)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*AnalyzerQueue)

func WithWorkers(n int) Option {
	return func(q *AnalyzerQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *AnalyzerQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithItemTimeout(d time.Duration) Option {
	return func(q *AnalyzerQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithResultHandler registers a callback invoked from worker goroutines for
// every finished job, failures included. The handler must be safe for
// concurrent calls.
func WithResultHandler(fn func(JobResult)) Option {
	return func(q *AnalyzerQueue) {
		if fn != nil {
			q.onResult = fn
		}
	}
}

func NewAnalyzerQueue(analyzer *extract.Analyzer, logger *slog.Logger, opts ...Option) *AnalyzerQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &AnalyzerQueue{
		analyzer: analyzer,
		logger:   logger,
		workers:  4,
		timeout:  30 * time.Second,
		onResult: func(JobResult) {},
		ch:       make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *AnalyzerQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					res, err := q.analyzer.Analyze(ctx, job.Path, job.Kind)
					cancel()

					if err != nil {
						q.logger.Error("analysis failed", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "error", err)
					} else {
						q.logger.Info("analyzed document", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "kind", job.Kind)
					}
					q.onResult(JobResult{Job: job, Result: res, Err: err})
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue submits a job, blocking when the queue is full. Jobs submitted
// after Shutdown are dropped with a warning.
func (q *AnalyzerQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued document", "job_id", job.ID, "path", job.Path, "kind", job.Kind)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

// Shutdown stops intake and waits for in-flight jobs, up to ctx.
func (q *AnalyzerQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
