package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	metricsinmem "droneswarm/internal/adapter/metrics/inmemory"
	"droneswarm/internal/adapter/repo/memory"
	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/episode"
	"droneswarm/internal/domain/sim"
	"droneswarm/internal/domain/task"
)

func fixedID(id string) func() string { return func() string { return id } }

func TestCreateUseCase_CreatesAndStores(t *testing.T) {
	store := memory.NewStore(0)
	repo := memory.NewBatchRepo(store)
	rec := metricsinmem.NewRecorder()
	uc := CreateUseCase{
		Batches:  repo,
		Metrics:  rec,
		Defaults: sim.DefaultConfig(),
		NewID:    fixedID("b-1"),
		Now:      func() time.Time { return time.Unix(100, 0) },
	}

	out, err := uc.Execute(context.Background(), CreateRequest{Seed: 7, NumAgents: 3, Tasks: []task.ID{task.Race}})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if out.BatchID != "b-1" {
		t.Fatalf("unexpected id %q", out.BatchID)
	}
	if got, want := len(out.Observations), 3*sim.ObsSize; got != want {
		t.Fatalf("obs len = %d, want %d", got, want)
	}
	if out.Task != task.Race {
		t.Fatalf("task = %q, want race", out.Task)
	}
	got, err := repo.Get(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Seed != 7 || got.NumAgents != 3 {
		t.Fatalf("unexpected record %+v", got)
	}
	if rec.Snapshot().BatchesCreated != 1 {
		t.Fatalf("create not recorded")
	}

	if _, err := uc.Execute(context.Background(), CreateRequest{NumAgents: 1}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for reused id, got %v", err)
	}
}

func TestCreateUseCase_RejectsBadInput(t *testing.T) {
	uc := CreateUseCase{
		Batches:   memory.NewBatchRepo(memory.NewStore(0)),
		Defaults:  sim.DefaultConfig(),
		MaxAgents: 8,
	}
	cases := []CreateRequest{
		{NumAgents: 9},
		{NumAgents: -1},
		{NumAgents: 1, Horizon: -5},
		{NumAgents: 1, Tasks: []task.ID{"juggle"}},
	}
	for _, req := range cases {
		if _, err := uc.Execute(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("req %+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestResetUseCase_RedrawsEpisode(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBatchRepo(memory.NewStore(0))
	create := CreateUseCase{Batches: repo, Defaults: sim.DefaultConfig(), NewID: fixedID("b-1")}
	if _, err := create.Execute(ctx, CreateRequest{NumAgents: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = repo.With(ctx, "b-1", func(b *sim.Batch) error {
		b.Step(nil)
		b.Step(nil)
		return nil
	})

	out, err := ResetUseCase{Batches: repo}.Execute(ctx, ResetRequest{BatchID: "b-1"})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(out.Observations) != 2*sim.ObsSize {
		t.Fatalf("unexpected obs len %d", len(out.Observations))
	}
	_ = repo.With(ctx, "b-1", func(b *sim.Batch) error {
		if b.Tick() != 0 {
			t.Fatalf("tick = %d after reset", b.Tick())
		}
		return nil
	})

	if _, err := (ResetUseCase{Batches: repo}).Execute(ctx, ResetRequest{BatchID: "missing"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUseCase_DropsBatchAndEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(0)
	repo := memory.NewBatchRepo(store)
	events := memory.NewEventRepo(store)
	create := CreateUseCase{Batches: repo, Defaults: sim.DefaultConfig(), NewID: fixedID("b-1")}
	if _, err := create.Execute(ctx, CreateRequest{NumAgents: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = events.Append(ctx, "b-1", []episode.Event{{Agent: 0, Cause: episode.CauseHorizon}})

	uc := DeleteUseCase{Batches: repo, Events: events}
	if err := uc.Execute(ctx, DeleteRequest{BatchID: "b-1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "b-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("batch still present: %v", err)
	}
	left, _ := events.ListByBatchID(ctx, "b-1", 0)
	if len(left) != 0 {
		t.Fatalf("events not dropped: %+v", left)
	}
	if err := uc.Execute(ctx, DeleteRequest{BatchID: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestListUseCase(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBatchRepo(memory.NewStore(0))
	ids := []string{"a", "b"}
	for i, id := range ids {
		uc := CreateUseCase{
			Batches:  repo,
			Defaults: sim.DefaultConfig(),
			NewID:    fixedID(id),
			Now:      func() time.Time { return time.Unix(int64(10*(i+1)), 0) },
		}
		if _, err := uc.Execute(ctx, CreateRequest{NumAgents: 1}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	out, err := ListUseCase{Batches: repo}.Execute(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Batches) != 2 || out.Batches[0].BatchID != "a" {
		t.Fatalf("unexpected list: %+v", out.Batches)
	}
}
