package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPublishQueuesEncodedEvent(t *testing.T) {
	h := NewHub()
	h.Publish(Event{Type: "stock_update", Action: "low_stock", Data: map[string]int{"quantity": 3}, Message: "Frame is low"})

	select {
	case raw := <-h.Broadcast:
		var got map[string]interface{}
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got["type"] != "stock_update" || got["action"] != "low_stock" {
			t.Fatalf("unexpected envelope: %s", raw)
		}
		if _, ok := got["user"]; ok {
			t.Fatalf("empty user should be omitted: %s", raw)
		}
	case <-time.After(time.Second):
		t.Fatalf("event was not queued")
	}

	if h.ClientCount() != 0 {
		t.Fatalf("no clients registered")
	}
}

func TestPublishKeepsOrderAndNeverBlocks(t *testing.T) {
	h := NewHub()
	capacity := cap(h.Broadcast)

	done := make(chan struct{})
	go func() {
		for i := 0; i < capacity+10; i++ {
			h.Publish(Event{Type: "stock_update", Action: "stock_adjusted", Data: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Publish blocked with no hub running")
	}

	if len(h.Broadcast) != capacity {
		t.Fatalf("expected %d queued events, got %d", capacity, len(h.Broadcast))
	}
	for want := 0; want < capacity; want++ {
		var got Event
		if err := json.Unmarshal(<-h.Broadcast, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if n, ok := got.Data.(float64); !ok || int(n) != want {
			t.Fatalf("event %d delivered out of order: %+v", want, got)
		}
	}
}
