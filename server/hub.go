package server

import (
	"sync"

	"turtle/events"
)

// hub fans a session's events out to websocket subscribers. Slow
// subscribers drop events instead of blocking the session.
type hub struct {
	mu     sync.Mutex
	subs   map[chan events.Event]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[chan events.Event]struct{})}
}

func (h *hub) publish(e events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// subscribe returns a channel of events and a function that releases it.
// The channel is closed when the hub closes or the subscription is released.
func (h *hub) subscribe(buffer int) (<-chan events.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan events.Event, buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
