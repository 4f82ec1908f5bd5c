package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Publish(Event{Type: "summary"})

	for i, ch := range []chan []byte{ch1, ch2} {
		select {
		case data := <-ch:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("subscriber %d: decoding event: %v", i, err)
			}
			if ev.Type != "summary" {
				t.Errorf("subscriber %d: expected summary event, got %q", i, ev.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i)
		}
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	b.Publish(Event{Type: "summary"})

	select {
	case <-ch:
		t.Fatal("unsubscribed channel received an event")
	default:
	}
}

func TestBrokerDropsSlowSubscriber(t *testing.T) {
	b := NewBroker()
	slow := b.Subscribe()
	_ = slow // never drained

	// More events than the channel buffers; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(Event{Type: "summary"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
