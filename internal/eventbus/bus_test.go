package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBus_DeliversToSubscribers(t *testing.T) {
	b := NewWithConfig(2, 10)
	defer b.Close(context.Background())

	id := uuid.New()
	got := make(chan Event, 2)
	b.Subscribe(EventTypeInventoryChanged, func(e Event) { got <- e })
	b.Subscribe(EventType("other"), func(e Event) { t.Error("wrong handler called") })

	b.Publish(Event{Type: EventTypeInventoryChanged, Player: id, Source: "item_pickup"})

	select {
	case e := <-got:
		if e.Player != id || e.Source != "item_pickup" {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_RecoversFromHandlerPanic(t *testing.T) {
	b := NewWithConfig(1, 10)
	defer b.Close(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	b.Subscribe(EventTypeInventoryChanged, func(Event) {
		defer wg.Done()
		panic("boom")
	})

	b.Publish(Event{Type: EventTypeInventoryChanged, Player: uuid.New()})
	b.Publish(Event{Type: EventTypeInventoryChanged, Player: uuid.New()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
}

func TestBus_PublishAfterCloseIsDropped(t *testing.T) {
	b := NewWithConfig(1, 1)
	b.Subscribe(EventTypeInventoryChanged, func(Event) {})

	b.Close(context.Background())
	b.Close(context.Background()) // second close is a no-op

	// Must not panic on the closed queue.
	b.Publish(Event{Type: EventTypeInventoryChanged, Player: uuid.New()})
}

func TestBus_DropsWhenQueueFull(t *testing.T) {
	b := NewWithConfig(1, 1)
	defer b.Close(context.Background())

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var mu sync.Mutex
	handled := 0
	b.Subscribe(EventTypeInventoryChanged, func(Event) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		handled++
		mu.Unlock()
	})

	b.Publish(Event{Type: EventTypeInventoryChanged, Player: uuid.New()})
	<-started // worker is busy
	b.Publish(Event{Type: EventTypeInventoryChanged, Player: uuid.New()}) // fills the queue
	b.Publish(Event{Type: EventTypeInventoryChanged, Player: uuid.New()}) // dropped, must not block
	close(release)

	b.Close(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if handled != 2 {
		t.Errorf("handled = %d, want 2", handled)
	}
}
