// Package hub fans ledger-change notifications out to connected observers.
// Publish calls are made under the ledger's write lock, so every observer
// sees events in the exact order mutations were applied.
package hub

import "sync"

// Event names match the wire protocol of the live channel.
const (
	EventRevenue  = "revenueUpdate"
	EventSales    = "salesUpdate"
	EventSchedule = "scheduleUpdate"
	EventWinner   = "winnerDrawn"
)

// Event is one change notification. Data carries the full updated view, so
// a duplicated or late event is harmless to apply.
type Event struct {
	Name string
	Data any
}

// Subscriber is one connected observer. Events arrive on Events() in
// publish order; the channel is closed when the subscriber is removed,
// either by Close or because it fell too far behind.
type Subscriber struct {
	ch  chan Event
	hub *Hub
}

func (s *Subscriber) Events() <-chan Event { return s.ch }

// Close removes the subscriber from the hub. Safe to call more than once.
func (s *Subscriber) Close() { s.hub.unsubscribe(s) }

type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	buffer int
}

// New creates a hub whose subscribers buffer up to buffer events.
func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe() *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Subscriber{
		ch:  make(chan Event, h.buffer),
		hub: h,
	}
	h.subs[s] = struct{}{}
	return s
}

// Publish delivers events to every subscriber without blocking. A
// subscriber whose buffer is full is dropped rather than allowed to delay
// the mutation or other observers.
func (h *Hub) Publish(events ...Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		for _, ev := range events {
			select {
			case s.ch <- ev:
			default:
				delete(h.subs, s)
				close(s.ch)
			}
			if _, ok := h.subs[s]; !ok {
				break
			}
		}
	}
}

func (h *Hub) unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}
