package observe

import (
	"context"
	"errors"
	"strings"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/sim"
	"droneswarm/internal/domain/swarm"
	"droneswarm/internal/domain/task"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidRequest = errors.New("invalid observe request")

type UseCase struct {
	Batches ports.BatchRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.BatchID) == "" || u.Batches == nil {
		return Response{}, ErrInvalidRequest
	}
	resp := Response{BatchID: req.BatchID, ObsWidth: sim.ObsSize}
	err := u.Batches.With(ctx, req.BatchID, func(b *sim.Batch) error {
		resp.Task = b.Task()
		resp.Tick = b.Tick()
		resp.NumAgents = b.NumAgents()
		resp.Observations = append([]float64(nil), b.Observations()...)
		if !req.Detail {
			return nil
		}
		pickPlace := b.Task() == task.PickPlace
		resp.Agents = make([]AgentView, 0, b.NumAgents())
		for i := 0; i < b.NumAgents(); i++ {
			resp.Agents = append(resp.Agents, agentView(b.Agent(i), pickPlace))
		}
		for _, r := range b.Rings() {
			resp.Rings = append(resp.Rings, RingView{Position: vec(r.Pos), Normal: vec(r.Normal), Radius: r.Radius})
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

func agentView(a swarm.Agent, pickPlace bool) AgentView {
	v := AgentView{
		Index:    a.Index,
		Size:     a.Size,
		Position: vec(a.State.Pos),
		Velocity: vec(a.State.Vel),
		Target:   vec(a.Target.Pos),
		Hidden:   vec(a.Hidden.Pos),
		Gripping: a.Gripping,
		RingIdx:  a.RingIdx,
		Return:   a.Episode.Return,
		Length:   a.Episode.Length,
	}
	if pickPlace {
		v.Box = vec(a.Cargo.BoxPos)
		v.Drop = vec(a.Cargo.DropPos)
		v.Pickup = a.Pickup.String()
		v.DropLeg = a.Drop.String()
	}
	return v
}

func vec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
