package grpcadapter

import (
	"context"

	"droneswarm/internal/app/batch"
	"droneswarm/internal/app/observe"
	"droneswarm/internal/app/replay"
	"droneswarm/internal/app/status"
	"droneswarm/internal/app/step"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client drives a remote Environment service with the app-layer request and
// response types.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, req, resp any) error {
	in, err := encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return decode(out, resp)
}

func (c *Client) Create(ctx context.Context, req batch.CreateRequest) (batch.CreateResponse, error) {
	tasks := make([]string, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		tasks = append(tasks, string(t))
	}
	var resp batch.CreateResponse
	err := c.call(ctx, methodCreate, createRequest{
		Seed:      req.Seed,
		NumAgents: req.NumAgents,
		Tasks:     tasks,
		Horizon:   req.Horizon,
	}, &resp)
	return resp, err
}

func (c *Client) Reset(ctx context.Context, batchID string) (batch.ResetResponse, error) {
	var resp batch.ResetResponse
	err := c.call(ctx, methodReset, batchRequest{BatchID: batchID}, &resp)
	return resp, err
}

func (c *Client) Step(ctx context.Context, req step.Request) (step.Response, error) {
	var resp step.Response
	err := c.call(ctx, methodStep, stepRequest{BatchID: req.BatchID, Actions: req.Actions, Repeat: req.Repeat}, &resp)
	return resp, err
}

func (c *Client) Observe(ctx context.Context, req observe.Request) (observe.Response, error) {
	var resp observe.Response
	err := c.call(ctx, methodObserve, observeRequest{BatchID: req.BatchID, Detail: req.Detail}, &resp)
	return resp, err
}

func (c *Client) Status(ctx context.Context, req status.Request) (status.Response, error) {
	var resp status.Response
	err := c.call(ctx, methodStatus, statusRequest{BatchID: req.BatchID, Reset: req.ResetLog}, &resp)
	return resp, err
}

func (c *Client) Replay(ctx context.Context, req replay.Request) (replay.Response, error) {
	var resp replay.Response
	err := c.call(ctx, methodReplay, replayRequest{BatchID: req.BatchID, Limit: req.Limit}, &resp)
	return resp, err
}

func (c *Client) Delete(ctx context.Context, batchID string) error {
	return c.call(ctx, methodDelete, batchRequest{BatchID: batchID}, nil)
}
