package reconciler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestWorkQueue_AddAndGet(t *testing.T) {
	q := NewQueue()

	req := ReconcileRequest{
		Name:      "platform/base",
		Operation: OperationUpdate,
		Attempt:   1,
	}

	q.Add(req)

	if q.Len() != 1 {
		t.Errorf("expected queue length 1, got %d", q.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, ok := q.Get(ctx)
	if !ok {
		t.Fatal("expected to get item from queue")
	}

	if got.Name != req.Name || got.Operation != req.Operation {
		t.Errorf("got unexpected request: %+v", got)
	}

	q.Done(got)
}

func TestWorkQueue_Deduplication(t *testing.T) {
	q := NewQueue()

	q.Add(ReconcileRequest{Name: "platform/base", Operation: OperationCreate, Attempt: 1})
	// A later event for the same project replaces the queued entry.
	q.Add(ReconcileRequest{Name: "platform/base", Operation: OperationDelete, Attempt: 1})

	if q.Len() != 1 {
		t.Errorf("expected queue length 1 after deduplication, got %d", q.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, ok := q.Get(ctx)
	if !ok {
		t.Fatal("expected to get item from queue")
	}

	if got.Operation != OperationDelete {
		t.Errorf("expected the latest operation to win, got %s", got.Operation)
	}

	q.Done(got)
}

func TestWorkQueue_DirtyRequeue(t *testing.T) {
	q := NewQueue()

	q.Add(ReconcileRequest{Name: "platform/base", Operation: OperationUpdate, Attempt: 1})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, ok := q.Get(ctx)
	if !ok {
		t.Fatal("expected to get item from queue")
	}

	// Same project changes again while being processed
	q.Add(ReconcileRequest{Name: "platform/base", Operation: OperationUpdate, Attempt: 2})

	if q.Len() != 0 {
		t.Errorf("expected queue length 0 while processing, got %d", q.Len())
	}

	// Done re-adds the dirty item
	q.Done(got)

	if q.Len() != 1 {
		t.Errorf("expected queue length 1 after done, got %d", q.Len())
	}

	got2, ok := q.Get(ctx)
	if !ok {
		t.Fatal("expected to get dirty item from queue")
	}

	if got2.Attempt != 2 {
		t.Errorf("expected attempt 2, got %d", got2.Attempt)
	}

	q.Done(got2)
}

func TestWorkQueue_Shutdown(t *testing.T) {
	q := NewQueue()

	done := make(chan bool)
	go func() {
		_, ok := q.Get(context.Background())
		done <- ok
	}()

	// Give the goroutine time to start waiting
	time.Sleep(50 * time.Millisecond)

	q.Shutdown()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected Get to return false after shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after shutdown")
	}
}

func TestWorkQueue_ConcurrentAccess(t *testing.T) {
	q := NewQueue()
	ctx := context.Background()

	var wg sync.WaitGroup
	numProducers := 5
	numItemsPerProducer := 10

	for i := 0; i < numProducers; i++ {
		wg.Add(1)
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < numItemsPerProducer; j++ {
				q.Add(ReconcileRequest{
					Name:      fmt.Sprintf("teams/app-%d-%d", producerID, j),
					Operation: OperationUpdate,
					Attempt:   1,
				})
			}
		}(i)
	}

	consumed := 0
	consumerDone := make(chan struct{})
	go func() {
		for {
			timeoutCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			req, ok := q.Get(timeoutCtx)
			cancel()
			if !ok {
				break
			}
			consumed++
			q.Done(req)
		}
		close(consumerDone)
	}()

	wg.Wait()
	time.Sleep(200 * time.Millisecond)
	q.Shutdown()

	<-consumerDone

	if consumed != numProducers*numItemsPerProducer {
		t.Errorf("expected %d consumed items, got %d", numProducers*numItemsPerProducer, consumed)
	}
}

func TestDelayedQueue_AddAfter(t *testing.T) {
	q := NewDelayedQueue()
	ctx := context.Background()

	start := time.Now()
	delay := 100 * time.Millisecond

	req := ReconcileRequest{Name: "platform/base", Operation: OperationUpdate, Attempt: 1}
	q.AddAfter(req, delay)

	got, ok := q.Get(ctx)
	elapsed := time.Since(start)

	if !ok {
		t.Fatal("expected to get item from queue")
	}

	if got.Name != req.Name {
		t.Errorf("got unexpected request: %+v", got)
	}

	if elapsed < delay {
		t.Errorf("item returned too quickly: %v < %v", elapsed, delay)
	}

	q.Done(got)
	q.Shutdown()
}

func TestDelayedQueue_CancelPending(t *testing.T) {
	q := NewDelayedQueue()

	q.AddAfter(ReconcileRequest{Name: "platform/base", Attempt: 1}, time.Hour)

	// Shutdown cancels the pending timer; the item is never added
	q.Shutdown()

	if q.Len() != 0 {
		t.Errorf("expected empty queue after shutdown, got %d", q.Len())
	}
}
