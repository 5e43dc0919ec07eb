package memory

import (
	"context"

	"droneswarm/internal/domain/episode"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, batchID string, events []episode.Event) error {
	if len(events) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	buf := append(r.store.events[batchID], events...)
	if over := len(buf) - r.store.eventLimit; over > 0 {
		buf = append(buf[:0:0], buf[over:]...)
	}
	r.store.events[batchID] = buf
	return nil
}

// ListByBatchID returns the most recent limit events in the order they
// happened. A non-positive limit returns everything retained.
func (r EventRepo) ListByBatchID(_ context.Context, batchID string, limit int) ([]episode.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	buf := r.store.events[batchID]
	if limit > 0 && len(buf) > limit {
		buf = buf[len(buf)-limit:]
	}
	return append([]episode.Event(nil), buf...), nil
}

func (r EventRepo) DeleteByBatchID(_ context.Context, batchID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.events, batchID)
	return nil
}
