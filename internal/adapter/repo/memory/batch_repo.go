package memory

import (
	"context"
	"sort"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/sim"
)

type BatchRepo struct {
	store *Store
}

func NewBatchRepo(store *Store) BatchRepo {
	return BatchRepo{store: store}
}

func (r BatchRepo) Create(_ context.Context, rec ports.BatchRecord, b *sim.Batch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.batches[rec.ID]; exists {
		return ports.ErrConflict
	}
	r.store.batches[rec.ID] = &entry{rec: rec, batch: b}
	return nil
}

func (r BatchRepo) With(ctx context.Context, id string, fn func(b *sim.Batch) error) error {
	e, ok := r.store.lookup(id)
	if !ok {
		return ports.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return ports.ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(e.batch)
}

func (r BatchRepo) Get(_ context.Context, id string) (ports.BatchRecord, error) {
	e, ok := r.store.lookup(id)
	if !ok {
		return ports.BatchRecord{}, ports.ErrNotFound
	}
	return e.rec, nil
}

func (r BatchRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	e, ok := r.store.batches[id]
	delete(r.store.batches, id)
	r.store.mu.Unlock()
	if !ok {
		return ports.ErrNotFound
	}
	e.mu.Lock()
	e.deleted = true
	e.batch = nil
	e.mu.Unlock()
	return nil
}

func (r BatchRepo) List(_ context.Context) ([]ports.BatchRecord, error) {
	r.store.mu.RLock()
	out := make([]ports.BatchRecord, 0, len(r.store.batches))
	for _, e := range r.store.batches {
		out = append(out, e.rec)
	}
	r.store.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
