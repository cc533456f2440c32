// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"log/slog"
	"sync"

	"github.com/danielhkuo/daily-habits/models"
)

// Hub fans notifications out to live subscribers (SSE streams, the TUI).
// Delivery never blocks; a subscriber whose buffer is full misses the message.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan models.Notification
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[int]chan models.Notification), buffer: buffer}
}

// Subscribe returns a channel of notifications and a function that
// unsubscribes and closes it.
func (h *Hub) Subscribe() (<-chan models.Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan models.Notification, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Deliver(n models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- n:
		default:
			slog.Warn("notification dropped for slow subscriber", "subscriber", id, "kind", n.Kind)
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
