package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOrchestrator_TickResyncsAllPlayers(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var mu sync.Mutex
	synced := make(map[uuid.UUID]int)
	seen := make(chan uuid.UUID, 64)

	syncFn := func(id uuid.UUID) error {
		mu.Lock()
		synced[id]++
		mu.Unlock()
		select {
		case seen <- id:
		default:
		}
		if id == ids[1] {
			return errors.New("player gone")
		}
		return nil
	}

	o := NewOrchestrator(func() []uuid.UUID { return ids }, syncFn, 10*time.Millisecond, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- o.Run(ctx) }()

	pending := map[uuid.UUID]bool{ids[0]: true, ids[1]: true, ids[2]: true}
	for len(pending) > 0 {
		select {
		case id := <-seen:
			delete(pending, id)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for resync")
		}
	}

	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run() = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		if synced[id] < 1 {
			t.Errorf("player %s never synced", id)
		}
	}
}
