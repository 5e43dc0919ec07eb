package status

import (
	"context"
	"errors"
	"strings"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/sim"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Batches ports.BatchRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.BatchID) == "" || u.Batches == nil {
		return Response{}, ErrInvalidRequest
	}
	resp := Response{BatchID: req.BatchID}
	err := u.Batches.With(ctx, req.BatchID, func(b *sim.Batch) error {
		g := b.Gates()
		resp.Task = b.Task()
		resp.NumAgents = b.NumAgents()
		resp.Tick = b.Tick()
		resp.GlobalTick = b.GlobalTick()
		resp.Gates = Gates{Grip: g.Grip, Payload: g.Payload, Annealed: g.Annealed}
		resp.Log = b.Log().Map()
		if req.ResetLog {
			b.ResetLog()
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	resp.Means = means(resp.Log)
	return resp, nil
}

// means divides every running sum by the episode count n. It is empty until
// at least one episode has finished.
func means(sums map[string]float64) map[string]float64 {
	n := sums["n"]
	out := make(map[string]float64, len(sums))
	if n <= 0 {
		return out
	}
	for k, v := range sums {
		if k == "n" {
			continue
		}
		out[k] = v / n
	}
	return out
}
