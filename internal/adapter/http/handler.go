package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"droneswarm/internal/app/batch"
	"droneswarm/internal/app/observe"
	"droneswarm/internal/app/ports"
	"droneswarm/internal/app/replay"
	"droneswarm/internal/app/status"
	"droneswarm/internal/app/step"
	"droneswarm/internal/domain/sim"
	"droneswarm/internal/domain/task"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	CreateUC  batch.CreateUseCase
	ResetUC   batch.ResetUseCase
	DeleteUC  batch.DeleteUseCase
	ListUC    batch.ListUseCase
	StepUC    step.UseCase
	ObserveUC observe.UseCase
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	batches := s.Group("/api/batches")
	batches.POST("", h.create)
	batches.GET("", h.list)
	batches.POST("/:id/reset", h.reset)
	batches.POST("/:id/step", h.step)
	batches.GET("/:id/observe", h.observe)
	batches.GET("/:id/status", h.status)
	batches.GET("/:id/replay", h.replay)
	batches.DELETE("/:id", h.delete)

	s.GET("/api/tasks", h.tasks)
	s.GET("/ops/kpi", h.kpi)
}

type createRequest struct {
	Seed      uint64   `json:"seed"`
	NumAgents int      `json:"num_agents"`
	Tasks     []string `json:"tasks"`
	Horizon   int      `json:"horizon"`
}

type stepRequest struct {
	Actions []float64 `json:"actions"`
	Repeat  int       `json:"repeat"`
}

func (h Handler) create(c context.Context, ctx *app.RequestContext) {
	var body createRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	ids := make([]task.ID, 0, len(body.Tasks))
	for _, t := range body.Tasks {
		ids = append(ids, task.ID(strings.TrimSpace(t)))
	}

	resp, err := h.CreateUC.Execute(c, batch.CreateRequest{
		Seed:      body.Seed,
		NumAgents: body.NumAgents,
		Tasks:     ids,
		Horizon:   body.Horizon,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) list(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ListUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) reset(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ResetUC.Execute(c, batch.ResetRequest{BatchID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.StepUC.Execute(c, step.Request{
		BatchID: ctx.Param("id"),
		Actions: body.Actions,
		Repeat:  body.Repeat,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	detail, _ := strconv.ParseBool(string(ctx.Query("detail")))
	resp, err := h.ObserveUC.Execute(c, observe.Request{BatchID: ctx.Param("id"), Detail: detail})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resetLog, _ := strconv.ParseBool(string(ctx.Query("reset")))
	resp, err := h.StatusUC.Execute(c, status.Request{BatchID: ctx.Param("id"), ResetLog: resetLog})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit := 0
	if raw := strings.TrimSpace(string(ctx.Query("limit"))); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "limit must be an integer")
			return
		}
		limit = n
	}
	resp, err := h.ReplayUC.Execute(c, replay.Request{BatchID: ctx.Param("id"), Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) delete(c context.Context, ctx *app.RequestContext) {
	if err := h.DeleteUC.Execute(c, batch.DeleteRequest{BatchID: ctx.Param("id")}); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) tasks(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{
		"tasks":        task.All(),
		"obs_width":    sim.ObsSize,
		"action_width": sim.ActionSize,
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, batch.ErrInvalidRequest),
		errors.Is(err, step.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, sim.ErrInvalidConfig):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "canceled", err.Error())
	default:
		hlog.Errorf("unhandled error: %v", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
