package memory

import (
	"sync"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/episode"
	"droneswarm/internal/domain/sim"
)

const DefaultEventLimit = 1024

type Store struct {
	mu         sync.RWMutex
	batches    map[string]*entry
	events     map[string][]episode.Event
	eventLimit int
}

// entry serialises access to one batch. deleted is set under mu so a caller
// that looked the entry up before Delete cannot step a dropped batch.
type entry struct {
	mu      sync.Mutex
	rec     ports.BatchRecord
	batch   *sim.Batch
	deleted bool
}

// NewStore keeps at most eventLimit episode events per batch, oldest dropped
// first. A non-positive limit selects DefaultEventLimit.
func NewStore(eventLimit int) *Store {
	if eventLimit <= 0 {
		eventLimit = DefaultEventLimit
	}
	return &Store{
		batches:    make(map[string]*entry),
		events:     make(map[string][]episode.Event),
		eventLimit: eventLimit,
	}
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.batches[id]
	return e, ok
}
