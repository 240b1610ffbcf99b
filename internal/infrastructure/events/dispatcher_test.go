package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatwave/auth-api/internal/core/ports"
)

func TestDispatcher_DeliversToAllSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(2, zerolog.Nop())

	var mu sync.Mutex
	got := make(map[string]int)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		d.Subscribe(func(_ context.Context, ev ports.UserEvent) {
			mu.Lock()
			got[ev.UserID]++
			mu.Unlock()
			wg.Done()
		})
	}
	d.Start(ctx)

	d.Publish(ports.UserEvent{Name: ports.EventUserRegistered, UserID: "user_1", OccurredAt: time.Now()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	if got["user_1"] != 2 {
		t.Fatalf("expected both subscribers to run, got %d", got["user_1"])
	}
}

func TestDispatcher_SameUserSameWorker(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	first := d.shardIndex("user_42")
	for i := 0; i < 10; i++ {
		if d.shardIndex("user_42") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	// No workers started: channels fill up and further publishes are dropped.
	d := NewDispatcher(1, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(ports.UserEvent{Name: ports.EventUserRegistered, UserID: "user_1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a full queue")
	}
}
