// Package batch creates, resets, lists and deletes simulation batches.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/sim"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

const DefaultMaxAgents = 4096

var ErrInvalidRequest = errors.New("invalid batch request")

type CreateUseCase struct {
	Batches   ports.BatchRepository
	Metrics   ports.SimMetrics
	Defaults  sim.Config
	MaxAgents int
	NewID     func() string
	Now       func() time.Time
}

type ResetUseCase struct {
	Batches ports.BatchRepository
	Metrics ports.SimMetrics
}

type DeleteUseCase struct {
	Batches ports.BatchRepository
	Events  ports.EpisodeEventRepository
}

type ListUseCase struct {
	Batches ports.BatchRepository
}

func (u CreateUseCase) Execute(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	if u.Batches == nil {
		return CreateResponse{}, ErrInvalidRequest
	}
	maxAgents := u.MaxAgents
	if maxAgents <= 0 {
		maxAgents = DefaultMaxAgents
	}
	if req.NumAgents < 0 || req.NumAgents > maxAgents {
		return CreateResponse{}, fmt.Errorf("%w: num_agents must be in [1, %d]", ErrInvalidRequest, maxAgents)
	}
	if req.Horizon < 0 {
		return CreateResponse{}, fmt.Errorf("%w: horizon must be positive", ErrInvalidRequest)
	}

	cfg := u.Defaults
	if req.NumAgents > 0 {
		cfg.NumAgents = req.NumAgents
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	if req.Horizon > 0 {
		cfg.Horizon = req.Horizon
	}
	if len(req.Tasks) > 0 {
		cfg.Tasks = req.Tasks
	}

	b, err := sim.New(cfg, nil)
	if err != nil {
		if errors.Is(err, sim.ErrInvalidConfig) {
			return CreateResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return CreateResponse{}, err
	}

	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	rec := ports.BatchRecord{
		ID:        newID(),
		NumAgents: b.NumAgents(),
		Seed:      b.Config().Seed,
		CreatedAt: nowFn().UTC(),
	}
	if err := u.Batches.Create(ctx, rec, b); err != nil {
		return CreateResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordCreate()
	}
	hlog.CtxInfof(ctx, "batch created id=%s agents=%d seed=%d task=%s", rec.ID, rec.NumAgents, rec.Seed, b.Task())

	return CreateResponse{
		BatchID:      rec.ID,
		NumAgents:    b.NumAgents(),
		ObsWidth:     sim.ObsSize,
		ActionWidth:  sim.ActionSize,
		Task:         b.Task(),
		Observations: append([]float64(nil), b.Observations()...),
	}, nil
}

func (u ResetUseCase) Execute(ctx context.Context, req ResetRequest) (ResetResponse, error) {
	if strings.TrimSpace(req.BatchID) == "" || u.Batches == nil {
		return ResetResponse{}, ErrInvalidRequest
	}
	resp := ResetResponse{BatchID: req.BatchID}
	err := u.Batches.With(ctx, req.BatchID, func(b *sim.Batch) error {
		b.Reset()
		resp.Task = b.Task()
		resp.Observations = append([]float64(nil), b.Observations()...)
		return nil
	})
	if err != nil {
		return ResetResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordReset()
	}
	return resp, nil
}

func (u DeleteUseCase) Execute(ctx context.Context, req DeleteRequest) error {
	if strings.TrimSpace(req.BatchID) == "" || u.Batches == nil {
		return ErrInvalidRequest
	}
	if err := u.Batches.Delete(ctx, req.BatchID); err != nil {
		return err
	}
	if u.Events != nil {
		if err := u.Events.DeleteByBatchID(ctx, req.BatchID); err != nil {
			hlog.CtxWarnf(ctx, "drop events for batch %s: %v", req.BatchID, err)
		}
	}
	hlog.CtxInfof(ctx, "batch deleted id=%s", req.BatchID)
	return nil
}

func (u ListUseCase) Execute(ctx context.Context) (ListResponse, error) {
	if u.Batches == nil {
		return ListResponse{}, ErrInvalidRequest
	}
	recs, err := u.Batches.List(ctx)
	if err != nil {
		return ListResponse{}, err
	}
	out := ListResponse{Batches: make([]Summary, 0, len(recs))}
	for _, r := range recs {
		out.Batches = append(out.Batches, Summary{
			BatchID:   r.ID,
			NumAgents: r.NumAgents,
			Seed:      r.Seed,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
