// Package jobs provides a small in-process task queue with at-least-once
// delivery to an idempotent handler. Failed messages are reported on a
// failure channel for observability; the queue itself never retries.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrQueueClosed indicates the queue no longer accepts messages.
var ErrQueueClosed = errors.New("job queue closed")

// Handler processes one message. Returning an error marks the job failed.
type Handler[T any] func(ctx context.Context, msg T) error

// Failure pairs a rejected message with the error that sank it.
type Failure[T any] struct {
	Msg T
	Err error
}

// Config controls the concurrency characteristics of a queue.
type Config struct {
	QueueSize int
	Workers   int
}

// Queue dispatches enqueued messages to a worker pool.
type Queue[T any] struct {
	handler  Handler[T]
	logger   *slog.Logger
	jobs     chan T
	failures chan Failure[T]
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

// New starts a queue consuming messages with the provided handler.
func New[T any](handler Handler[T], cfg Config, logger *slog.Logger) *Queue[T] {
	if handler == nil {
		panic("jobs: handler must not be nil")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue[T]{
		handler:  handler,
		logger:   logger,
		jobs:     make(chan T, cfg.QueueSize),
		failures: make(chan Failure[T], cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	q.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go q.worker()
	}

	return q
}

// Enqueue schedules a message for processing. A message accepted here
// survives cancellation of the enqueueing request's context.
func (q *Queue[T]) Enqueue(ctx context.Context, msg T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return ErrQueueClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return ErrQueueClosed
	case q.jobs <- msg:
		return nil
	}
}

// Failures exposes rejected messages. The channel is buffered; when no one
// drains it, the oldest report is dropped rather than blocking a worker.
func (q *Queue[T]) Failures() <-chan Failure[T] {
	return q.failures
}

// Shutdown stops intake and waits for the worker pool to drain outstanding jobs.
func (q *Queue[T]) Shutdown(ctx context.Context) error {
	q.once.Do(func() {
		q.cancel()
		close(q.jobs)
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()

	for msg := range q.jobs {
		if err := q.handler(context.Background(), msg); err != nil {
			q.logger.Error("job failed", "error", err)
			q.reportFailure(Failure[T]{Msg: msg, Err: err})
		}
	}
}

func (q *Queue[T]) reportFailure(f Failure[T]) {
	for {
		select {
		case q.failures <- f:
			return
		default:
		}
		select {
		case <-q.failures:
		default:
		}
	}
}
