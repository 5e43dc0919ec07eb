package ports

import (
	"context"
	"time"

	"droneswarm/internal/domain/episode"
	"droneswarm/internal/domain/sim"
)

type BatchRecord struct {
	ID        string
	NumAgents int
	Seed      uint64
	CreatedAt time.Time
}

// BatchRepository owns live batches. With runs fn while holding the batch
// exclusively, so callers never share a *sim.Batch across goroutines.
type BatchRepository interface {
	Create(ctx context.Context, rec BatchRecord, b *sim.Batch) error
	With(ctx context.Context, id string, fn func(b *sim.Batch) error) error
	Get(ctx context.Context, id string) (BatchRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]BatchRecord, error)
}

type EpisodeEventRepository interface {
	Append(ctx context.Context, batchID string, events []episode.Event) error
	ListByBatchID(ctx context.Context, batchID string, limit int) ([]episode.Event, error)
	DeleteByBatchID(ctx context.Context, batchID string) error
}
