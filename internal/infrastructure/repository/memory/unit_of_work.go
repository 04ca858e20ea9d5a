package memory

import (
	"context"
	"sync"
)

// Snapshotter is implemented by mutable memory stores so a unit of work can
// roll their state back when the wrapped function fails.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

// UnitOfWork serializes memory-backed units of work under one mutex and
// restores every registered store on failure, mirroring the commit/rollback
// behavior of the database-backed runner.
type UnitOfWork struct {
	mu     sync.Mutex
	stores []Snapshotter
}

func NewUnitOfWork(stores ...Snapshotter) *UnitOfWork {
	return &UnitOfWork{stores: stores}
}

func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snapshots := make([]any, len(u.stores))
	for i, store := range u.stores {
		snapshots[i] = store.Snapshot()
	}

	if err := fn(ctx); err != nil {
		for i, store := range u.stores {
			store.Restore(snapshots[i])
		}
		return err
	}
	return nil
}
