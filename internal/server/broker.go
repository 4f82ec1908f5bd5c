package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload pushed to every SSE subscriber. Control events carry
// the full current control state; summary events announce a fresh aggregate
// snapshot.
type Event struct {
	Type    string           `json:"type"` // "control" or "summary"
	Control *ControlResponse `json:"control,omitempty"`
}

// Broker is an in-process pub/sub for SSE events. Every subscriber sees every
// event; there is a single shared stage.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the subscriber set.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to all subscribers. Slow subscribers are skipped;
// countdown ticks are re-sent every second, so a dropped tick heals itself.
func (b *Broker) Publish(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
