package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueueDeliversMessages(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	q := New(func(_ context.Context, msg int) error {
		mu.Lock()
		seen = append(seen, msg)
		mu.Unlock()
		return nil
	}, Config{QueueSize: 8, Workers: 2}, nil)

	for i := 0; i < 5; i++ {
		if err := q.Enqueue(context.Background(), i); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 5 {
		t.Fatalf("expected 5 processed messages, got %d", len(seen))
	}
}

func TestQueueReportsFailures(t *testing.T) {
	boom := errors.New("boom")
	q := New(func(_ context.Context, msg string) error {
		if msg == "bad" {
			return boom
		}
		return nil
	}, Config{QueueSize: 4, Workers: 1}, nil)

	if err := q.Enqueue(context.Background(), "good"); err != nil {
		t.Fatalf("enqueue good: %v", err)
	}
	if err := q.Enqueue(context.Background(), "bad"); err != nil {
		t.Fatalf("enqueue bad: %v", err)
	}

	select {
	case failure := <-q.Failures():
		if failure.Msg != "bad" || !errors.Is(failure.Err, boom) {
			t.Fatalf("unexpected failure report: %+v", failure)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected a failure report")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	q := New(func(context.Context, int) error { return nil }, Config{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if err := q.Enqueue(context.Background(), 1); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestQueueEnqueueHonorsCallerContext(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	q := New(func(context.Context, int) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil
	}, Config{QueueSize: 1, Workers: 1}, nil)
	defer func() {
		close(block)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = q.Shutdown(shutdownCtx)
	}()

	// Occupy the single worker, then fill the one-slot buffer.
	if err := q.Enqueue(context.Background(), 1); err != nil {
		t.Fatalf("enqueue 1: %v", err)
	}
	<-started
	if err := q.Enqueue(context.Background(), 2); err != nil {
		t.Fatalf("enqueue 2: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(ctx, 3); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
