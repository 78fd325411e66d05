// Package sequence issues unique, monotonically increasing integer ids from
// named durable counters.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mtunzisteven/foodStorageManager/internal/metrics"
	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

var (
	// ErrUnknownCounter is returned for counter names the system was not
	// seeded with.
	ErrUnknownCounter = errors.New("sequence: unknown counter")

	// ErrAllocation is returned when a unique id cannot be guaranteed,
	// either because the counter store failed or because the allocator is
	// degraded from an earlier failure.
	ErrAllocation = errors.New("sequence: allocation failed")
)

// State describes the allocator's health.
type State int

const (
	// StateUninitialized means the counter store has not been probed yet.
	StateUninitialized State = iota
	// StateReady means ids can be issued.
	StateReady
	// StateDegraded means a persistence failure occurred; NextID fails fast
	// until Reload confirms the store is reachable again.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "uninitialized"
	}
}

// Allocator hands out collision-free ids for the registered counters.
//
// Every NextID call is a single atomic increment-and-return against the
// counter store. The allocator holds no counter values in memory: a cached
// value written back later would let two concurrent callers read the same
// number, so the store's returned value is the only one ever used.
type Allocator struct {
	counters storage.CounterStore
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates an Allocator and probes the counter store so that seeding
// problems surface at startup rather than on the first signup.
func New(ctx context.Context, counters storage.CounterStore, logger *slog.Logger) (*Allocator, error) {
	a := &Allocator{
		counters: counters,
		logger:   logger,
		state:    StateUninitialized,
	}
	if err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// registered reports whether name is one of the seeded counters.
func registered(name string) bool {
	return name == models.CounterUsers || name == models.CounterProducts
}

// NextID returns the next id for the named counter. No two calls for the same
// name ever return the same value, regardless of interleaving.
func (a *Allocator) NextID(ctx context.Context, name string) (int64, error) {
	if !registered(name) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCounter, name)
	}

	a.mu.Lock()
	state := a.state
	a.mu.Unlock()
	if state != StateReady {
		return 0, fmt.Errorf("%w: allocator is %s", ErrAllocation, state)
	}

	id, err := a.counters.IncrementCounter(ctx, name)
	if err != nil {
		// Fail fast from now on rather than risk a duplicate issue while
		// the store's health is unknown.
		a.degrade(err)
		return 0, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	metrics.IDsIssued.WithLabelValues(name).Inc()
	return id, nil
}

// Reload probes every registered counter and, if all are readable, moves the
// allocator (back) to Ready.
func (a *Allocator) Reload(ctx context.Context) error {
	for _, name := range []string{models.CounterUsers, models.CounterProducts} {
		value, err := a.counters.GetCounter(ctx, name)
		if err != nil {
			a.degrade(err)
			return fmt.Errorf("%w: probe of %q failed: %v", ErrAllocation, name, err)
		}
		a.logger.Debug("counter probed", "counter", name, "value", value)
	}

	a.mu.Lock()
	prev := a.state
	a.state = StateReady
	a.mu.Unlock()

	metrics.AllocatorDegraded.Set(0)
	if prev == StateDegraded {
		a.logger.Info("sequence allocator recovered", "state", StateReady.String())
	}
	return nil
}

// State returns the allocator's current state.
func (a *Allocator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Allocator) degrade(cause error) {
	a.mu.Lock()
	already := a.state == StateDegraded
	a.state = StateDegraded
	a.mu.Unlock()

	metrics.AllocatorDegraded.Set(1)
	if !already {
		a.logger.Error("sequence allocator degraded", "error", cause)
	}
}
