package grpcadapter

import (
	"context"
	"errors"
	"time"

	"droneswarm/internal/app/batch"
	"droneswarm/internal/app/observe"
	"droneswarm/internal/app/ports"
	"droneswarm/internal/app/replay"
	"droneswarm/internal/app/status"
	"droneswarm/internal/app/step"
	"droneswarm/internal/domain/sim"
	"droneswarm/internal/domain/task"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Server struct {
	CreateUC  batch.CreateUseCase
	ResetUC   batch.ResetUseCase
	DeleteUC  batch.DeleteUseCase
	StepUC    step.UseCase
	ObserveUC observe.UseCase
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
}

var _ EnvironmentServer = (*Server)(nil)

type createRequest struct {
	Seed      uint64   `json:"seed"`
	NumAgents int      `json:"num_agents"`
	Tasks     []string `json:"tasks"`
	Horizon   int      `json:"horizon"`
}

type batchRequest struct {
	BatchID string `json:"batch_id"`
}

type stepRequest struct {
	BatchID string    `json:"batch_id"`
	Actions []float64 `json:"actions"`
	Repeat  int       `json:"repeat"`
}

type observeRequest struct {
	BatchID string `json:"batch_id"`
	Detail  bool   `json:"detail"`
}

type statusRequest struct {
	BatchID string `json:"batch_id"`
	Reset   bool   `json:"reset"`
}

type replayRequest struct {
	BatchID string `json:"batch_id"`
	Limit   int    `json:"limit"`
}

func (s *Server) Create(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req createRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	ids := make([]task.ID, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		ids = append(ids, task.ID(t))
	}
	resp, err := s.CreateUC.Execute(ctx, batch.CreateRequest{
		Seed:      req.Seed,
		NumAgents: req.NumAgents,
		Tasks:     ids,
		Horizon:   req.Horizon,
	})
	return reply(resp, err)
}

func (s *Server) Reset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req batchRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	resp, err := s.ResetUC.Execute(ctx, batch.ResetRequest{BatchID: req.BatchID})
	return reply(resp, err)
}

func (s *Server) Step(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req stepRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	resp, err := s.StepUC.Execute(ctx, step.Request{BatchID: req.BatchID, Actions: req.Actions, Repeat: req.Repeat})
	return reply(resp, err)
}

func (s *Server) Observe(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req observeRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	resp, err := s.ObserveUC.Execute(ctx, observe.Request{BatchID: req.BatchID, Detail: req.Detail})
	return reply(resp, err)
}

func (s *Server) Status(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req statusRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	resp, err := s.StatusUC.Execute(ctx, status.Request{BatchID: req.BatchID, ResetLog: req.Reset})
	return reply(resp, err)
}

func (s *Server) Replay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req replayRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	resp, err := s.ReplayUC.Execute(ctx, replay.Request{BatchID: req.BatchID, Limit: req.Limit})
	return reply(resp, err)
}

func (s *Server) Delete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req batchRequest
	if err := decode(in, &req); err != nil {
		return nil, grpcstatus.Error(codes.InvalidArgument, "invalid request")
	}
	if err := s.DeleteUC.Execute(ctx, batch.DeleteRequest{BatchID: req.BatchID}); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func reply(resp any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := encode(resp)
	if err != nil {
		return nil, grpcstatus.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, batch.ErrInvalidRequest),
		errors.Is(err, step.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, sim.ErrInvalidConfig):
		return grpcstatus.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		return grpcstatus.Error(codes.NotFound, err.Error())
	case errors.Is(err, ports.ErrConflict):
		return grpcstatus.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return grpcstatus.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return grpcstatus.Error(codes.DeadlineExceeded, err.Error())
	default:
		hlog.Errorf("grpc: unhandled error: %v", err)
		return grpcstatus.Error(codes.Internal, "internal error")
	}
}

// LoggingInterceptor logs each call's method, latency and status code.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	hlog.CtxDebugf(ctx, "grpc method=%s code=%s took=%s", info.FullMethod, grpcstatus.Code(err), time.Since(start))
	return resp, err
}
