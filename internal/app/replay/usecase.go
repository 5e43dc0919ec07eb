package replay

import (
	"context"
	"errors"
	"strings"

	"droneswarm/internal/app/ports"
	"droneswarm/internal/domain/episode"
)

const DefaultLimit = 100

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Batches ports.BatchRepository
	Events  ports.EpisodeEventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.BatchID) == "" || u.Events == nil {
		return Response{}, ErrInvalidRequest
	}
	if req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if u.Batches != nil {
		if _, err := u.Batches.Get(ctx, req.BatchID); err != nil {
			return Response{}, err
		}
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	events, err := u.Events.ListByBatchID(ctx, req.BatchID, limit)
	if err != nil {
		return Response{}, err
	}
	if events == nil {
		events = []episode.Event{}
	}
	return Response{BatchID: req.BatchID, Events: events, Summary: summarize(events)}, nil
}

func summarize(events []episode.Event) Summary {
	var s Summary
	var ret, length float64
	for _, e := range events {
		s.Episodes++
		if e.Cause == episode.CauseOutOfBounds {
			s.OutOfBounds++
		}
		ret += e.Return
		length += float64(e.Length)
		s.Deliveries += e.Deliveries
		s.Grips += e.Grips
		s.LastGlobalTick = max(s.LastGlobalTick, e.GlobalTick)
	}
	if s.Episodes > 0 {
		s.MeanReturn = ret / float64(s.Episodes)
		s.MeanLength = length / float64(s.Episodes)
	}
	return s
}
