package step

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/episode"
	"droneswarm/internal/domain/sim"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const MaxRepeat = 1000

var ErrInvalidRequest = errors.New("invalid step request")

type UseCase struct {
	Batches ports.BatchRepository
	Events  ports.EpisodeEventRepository
	Metrics ports.SimMetrics
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.BatchID) == "" || u.Batches == nil {
		return Response{}, ErrInvalidRequest
	}
	if req.Repeat < 0 || req.Repeat > MaxRepeat {
		return Response{}, fmt.Errorf("%w: repeat must be in [0, %d]", ErrInvalidRequest, MaxRepeat)
	}
	repeat := max(req.Repeat, 1)

	resp := Response{BatchID: req.BatchID}
	var ended []episode.Event
	terminated := 0
	err := u.Batches.With(ctx, req.BatchID, func(b *sim.Batch) error {
		n := b.NumAgents()
		if len(req.Actions) != 0 && len(req.Actions) != n*sim.ActionSize {
			return fmt.Errorf("%w: expected %d actions, got %d", ErrInvalidRequest, n*sim.ActionSize, len(req.Actions))
		}
		resp.Rewards = make([]float64, n)
		resp.Terminals = make([]bool, n)
		for r := 0; r < repeat; r++ {
			b.Step(req.Actions)
			for i, v := range b.Rewards() {
				resp.Rewards[i] += v
			}
			done := 0
			for i, term := range b.Terminals() {
				if term {
					resp.Terminals[i] = true
					done++
				}
			}
			if u.Metrics != nil {
				u.Metrics.RecordStep(n, done)
			}
			terminated += done
			ended = append(ended, b.Events()...)
		}
		resp.Task = b.Task()
		resp.Tick = b.Tick()
		resp.GlobalTick = b.GlobalTick()
		resp.Observations = append([]float64(nil), b.Observations()...)
		return nil
	})
	if err != nil {
		if u.Metrics != nil && !errors.Is(err, ErrInvalidRequest) && !errors.Is(err, ports.ErrNotFound) {
			u.Metrics.RecordFailure()
		}
		return Response{}, err
	}

	resp.Episodes = ended
	if u.Events != nil && len(ended) > 0 {
		if err := u.Events.Append(ctx, req.BatchID, ended); err != nil {
			hlog.CtxErrorf(ctx, "append episode events batch=%s: %v", req.BatchID, err)
			return Response{}, err
		}
	}
	if terminated > 0 {
		hlog.CtxDebugf(ctx, "batch=%s tick=%d terminated=%d", req.BatchID, resp.Tick, terminated)
	}
	return resp, nil
}
