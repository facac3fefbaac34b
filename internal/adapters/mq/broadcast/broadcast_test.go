package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestHub_BasicOperations(t *testing.T) {
	h := New[string]()
	ctx := context.Background()

	if n := h.Publish(ctx, "nobody"); n != 0 {
		t.Errorf("expected 0 deliveries without subscribers, got %d", n)
	}

	a, err := h.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	b, err := h.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if a.ID == b.ID {
		t.Error("expected distinct subscription ids")
	}
	if l := h.Len(); l != 2 {
		t.Errorf("expected 2 subscribers, got %d", l)
	}

	if n := h.Publish(ctx, "view-1"); n != 2 {
		t.Errorf("expected 2 deliveries, got %d", n)
	}
	if v := <-a.C; v != "view-1" {
		t.Errorf("expected view-1, got %q", v)
	}
	if v := <-b.C; v != "view-1" {
		t.Errorf("expected view-1, got %q", v)
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	if _, ok := <-a.C; ok {
		t.Error("expected unsubscribed channel to be closed")
	}
	if l := h.Len(); l != 1 {
		t.Errorf("expected 1 subscriber, got %d", l)
	}
}

func TestHub_SlowSubscriberKeepsNewest(t *testing.T) {
	h := New[int](WithBufferSize(2))
	ctx := context.Background()

	sub, err := h.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for i := 1; i <= 5; i++ {
		if n := h.Publish(ctx, i); n != 1 {
			t.Errorf("publish %d: expected delivery, got %d", i, n)
		}
	}

	got := []int{<-sub.C, <-sub.C}
	if got[0] != 4 || got[1] != 5 {
		t.Errorf("expected the newest values [4 5], got %v", got)
	}
}

func TestHub_Close(t *testing.T) {
	h := New[string]()
	sub, _ := h.Subscribe()

	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !h.IsClosed() {
		t.Error("expected hub to be closed")
	}
	if _, ok := <-sub.C; ok {
		t.Error("expected subscriber channel to be closed")
	}
	if _, err := h.Subscribe(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if n := h.Publish(context.Background(), "late"); n != 0 {
		t.Errorf("expected no deliveries after close, got %d", n)
	}
	h.Unsubscribe(sub)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	h := New[int](WithBufferSize(1))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub, err := h.Subscribe()
			if err != nil {
				return
			}
			for j := 0; j < 50; j++ {
				h.Publish(ctx, j)
			}
			h.Unsubscribe(sub)
		}()
	}
	wg.Wait()

	if l := h.Len(); l != 0 {
		t.Errorf("expected all subscribers gone, got %d", l)
	}
}
