package events

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/chatwave/auth-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Subscriber consumes a single user lifecycle event.
type Subscriber func(ctx context.Context, event ports.UserEvent)

// Dispatcher fans user lifecycle events out to subscribers on a fixed set of
// workers, sharded by user ID so events for one user are delivered in order.
// It is the in-process "registered" hook downstream collaborators attach to.
type Dispatcher struct {
	workers     []chan ports.UserEvent
	subscribers []Subscriber
	log         zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.UserEvent, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.UserEvent, channelBuffer)
	}
	return d
}

// Subscribe registers a subscriber. Not safe to call after Start.
func (d *Dispatcher) Subscribe(sub Subscriber) {
	d.subscribers = append(d.subscribers, sub)
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish sends an event to the worker responsible for its user. Non-blocking
// up to channelBuffer capacity; beyond that the event is dropped with a log
// line rather than stalling the request path.
func (d *Dispatcher) Publish(event ports.UserEvent) {
	select {
	case d.workers[d.shardIndex(event.UserID)] <- event:
	default:
		d.log.Warn().Str("event", event.Name).Str("user_id", event.UserID).Msg("event queue full, dropping")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.UserEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			for _, sub := range d.subscribers {
				sub(ctx, event)
			}
			d.log.Debug().Str("event", event.Name).Str("user_id", event.UserID).Int("worker_id", id).Msg("event delivered")
		}
	}
}
