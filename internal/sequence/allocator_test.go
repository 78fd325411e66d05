package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// fakeCounterStore is an in-memory storage.CounterStore with fault injection.
type fakeCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
	failNext bool
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counters: map[string]int64{
			models.CounterUsers:    0,
			models.CounterProducts: 0,
		},
	}
}

func (f *fakeCounterStore) IncrementCounter(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return 0, errors.New("store unreachable")
	}
	if _, ok := f.counters[name]; !ok {
		return 0, fmt.Errorf("%w: %s", storage.ErrUnknownCounter, name)
	}
	f.counters[name]++
	return f.counters[name], nil
}

func (f *fakeCounterStore) GetCounter(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return 0, errors.New("store unreachable")
	}
	value, ok := f.counters[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", storage.ErrUnknownCounter, name)
	}
	return value, nil
}

func (f *fakeCounterStore) setFailing(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = failing
}

func newTestAllocator(t *testing.T) (*Allocator, *fakeCounterStore) {
	t.Helper()
	store := newFakeCounterStore()
	allocator, err := New(context.Background(), store, slog.Default())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return allocator, store
}

func TestNextID(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential ids per counter", func(t *testing.T) {
		allocator, _ := newTestAllocator(t)
		for want := int64(1); want <= 5; want++ {
			got, err := allocator.NextID(ctx, models.CounterUsers)
			if err != nil {
				t.Fatalf("NextID failed: %v", err)
			}
			if got != want {
				t.Errorf("NextID = %d, want %d", got, want)
			}
		}

		// The other counter is independent.
		got, err := allocator.NextID(ctx, models.CounterProducts)
		if err != nil {
			t.Fatalf("NextID failed: %v", err)
		}
		if got != 1 {
			t.Errorf("products NextID = %d, want 1", got)
		}
	})

	t.Run("unknown counter name", func(t *testing.T) {
		allocator, _ := newTestAllocator(t)
		for _, name := range []string{"", "recipes", "Users"} {
			_, err := allocator.NextID(ctx, name)
			if !errors.Is(err, ErrUnknownCounter) {
				t.Errorf("NextID(%q): expected ErrUnknownCounter, got %v", name, err)
			}
		}
		// A rejected name must not have touched the allocator's health.
		if allocator.State() != StateReady {
			t.Errorf("State = %v, want ready", allocator.State())
		}
	})

	t.Run("concurrent calls yield distinct gap-free ids", func(t *testing.T) {
		allocator, _ := newTestAllocator(t)
		const n = 100

		results := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := allocator.NextID(ctx, models.CounterProducts)
				if err != nil {
					t.Errorf("NextID failed: %v", err)
					return
				}
				results <- id
			}()
		}
		wg.Wait()
		close(results)

		var ids []int64
		for id := range results {
			ids = append(ids, id)
		}
		if len(ids) != n {
			t.Fatalf("Got %d ids, want %d", len(ids), n)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for i, id := range ids {
			if want := int64(i + 1); id != want {
				t.Fatalf("ids[%d] = %d, want %d (duplicate or gap)", i, id, want)
			}
		}
	})
}

func TestDegradedState(t *testing.T) {
	ctx := context.Background()

	t.Run("store failure latches degraded", func(t *testing.T) {
		allocator, store := newTestAllocator(t)

		store.setFailing(true)
		if _, err := allocator.NextID(ctx, models.CounterUsers); !errors.Is(err, ErrAllocation) {
			t.Fatalf("Expected ErrAllocation, got %v", err)
		}
		if allocator.State() != StateDegraded {
			t.Fatalf("State = %v, want degraded", allocator.State())
		}

		// Even with the store healthy again, calls fail fast until Reload.
		store.setFailing(false)
		if _, err := allocator.NextID(ctx, models.CounterUsers); !errors.Is(err, ErrAllocation) {
			t.Errorf("Expected fail-fast ErrAllocation while degraded, got %v", err)
		}
	})

	t.Run("reload recovers only when the store is reachable", func(t *testing.T) {
		allocator, store := newTestAllocator(t)
		store.setFailing(true)
		allocator.NextID(ctx, models.CounterUsers)

		if err := allocator.Reload(ctx); !errors.Is(err, ErrAllocation) {
			t.Fatalf("Reload against a failing store: expected ErrAllocation, got %v", err)
		}
		if allocator.State() != StateDegraded {
			t.Fatalf("State = %v, want degraded", allocator.State())
		}

		store.setFailing(false)
		if err := allocator.Reload(ctx); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		if allocator.State() != StateReady {
			t.Fatalf("State = %v, want ready", allocator.State())
		}

		// Issuance resumes where the counter left off, without duplicates.
		id, err := allocator.NextID(ctx, models.CounterUsers)
		if err != nil {
			t.Fatalf("NextID after recovery failed: %v", err)
		}
		if id != 1 {
			t.Errorf("NextID after recovery = %d, want 1", id)
		}
	})

	t.Run("constructor rejects an unreachable store", func(t *testing.T) {
		store := newFakeCounterStore()
		store.setFailing(true)
		if _, err := New(ctx, store, slog.Default()); !errors.Is(err, ErrAllocation) {
			t.Errorf("Expected ErrAllocation from New, got %v", err)
		}
	})
}
