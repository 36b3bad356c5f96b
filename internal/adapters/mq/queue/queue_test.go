package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/hiscores/internal/domain/model"
)

func job(key string) Job {
	return Job{
		Key:      key,
		Player:   model.Player{ID: key, Type: model.AccountRegular},
		Snapshot: model.NewSnapshot(key, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil),
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, job("p1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	j := <-q.Dequeue(ctx)
	if j.Key != "p1" || j.Snapshot.PlayerID != "p1" {
		t.Errorf("unexpected job %+v", j)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, k := range []string{"p1", "p2"} {
		if err := q.Enqueue(ctx, job(k)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}

	if err := q.Enqueue(ctx, job("p3")); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(context.Background(), job("p1")); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	// full and cancelled: either refusal is acceptable, but never success
	if err := q.Enqueue(ctx, job("p2")); err == nil {
		t.Error("expected enqueue to fail")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	const producers, perProducer = 10, 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, job(fmt.Sprintf("p%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	consumed := make(chan string, producers*perProducer)
	out := q.Dequeue(ctx)
	go func() {
		for j := range out {
			consumed <- j.Key
		}
	}()

	wg.Wait()
	deadline := time.After(2 * time.Second)
	for n := 0; n < producers*perProducer; n++ {
		select {
		case <-consumed:
		case <-deadline:
			t.Fatalf("consumed only %d jobs", n)
		}
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for _, k := range []string{"p1", "p2"} {
		if err := q.Enqueue(ctx, job(k)); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, job("p3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// queued jobs drain before the channel closes
	var drained []string
	timeout := time.After(time.Second)
	out := q.Dequeue(ctx)
	for open := true; open; {
		select {
		case j, ok := <-out:
			if !ok {
				open = false
				continue
			}
			drained = append(drained, j.Key)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
	if len(drained) != 2 {
		t.Errorf("expected 2 drained jobs, got %v", drained)
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
