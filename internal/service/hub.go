package service

import (
	"context"
	"sync"

	"github.com/nagarik-sahayak/sahayak/internal/events"
)

const hubBuffer = 16

// Hub is an in-process event fan-out used when no redis is configured.
// Slow subscribers lose events rather than block publishers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan *events.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan *events.Event]struct{})}
}

func (h *Hub) Publish(ctx context.Context, event *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub <- event:
		default:
		}
	}
	return nil
}

// Subscribe delivers events until ctx is done, then closes the channel.
func (h *Hub) Subscribe(ctx context.Context) (<-chan *events.Event, error) {
	sub := make(chan *events.Event, hubBuffer)

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		close(sub)
		h.mu.Unlock()
	}()
	return sub, nil
}
