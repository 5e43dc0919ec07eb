package main

import (
	"fmt"
	"net"

	grpcadapter "droneswarm/internal/adapter/grpc"
	httpadapter "droneswarm/internal/adapter/http"
	metricsinmem "droneswarm/internal/adapter/metrics/inmemory"
	"droneswarm/internal/adapter/repo/memory"
	"droneswarm/internal/app/batch"
	"droneswarm/internal/app/observe"
	"droneswarm/internal/app/replay"
	"droneswarm/internal/app/status"
	"droneswarm/internal/app/step"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

func newServeCmd() *cobra.Command {
	var httpAddr, grpcAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve batches over HTTP and gRPC",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(httpAddr, grpcAddr)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", stringEnv("DRONESWARM_HTTP_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&grpcAddr, "grpc", stringEnv("DRONESWARM_GRPC_ADDR", ":9090"), "gRPC listen address, empty to disable")
	return cmd
}

func serve(httpAddr, grpcAddr string) error {
	store := memory.NewStore(intEnv("DRONESWARM_EVENT_LIMIT", memory.DefaultEventLimit))
	batches := memory.NewBatchRepo(store)
	events := memory.NewEventRepo(store)
	kpi := metricsinmem.NewRecorder()

	createUC := batch.CreateUseCase{
		Batches:   batches,
		Metrics:   kpi,
		Defaults:  simConfigFromEnv(),
		MaxAgents: intEnv("DRONESWARM_MAX_AGENTS", batch.DefaultMaxAgents),
	}
	resetUC := batch.ResetUseCase{Batches: batches, Metrics: kpi}
	deleteUC := batch.DeleteUseCase{Batches: batches, Events: events}
	stepUC := step.UseCase{Batches: batches, Events: events, Metrics: kpi}
	observeUC := observe.UseCase{Batches: batches}
	statusUC := status.UseCase{Batches: batches}
	replayUC := replay.UseCase{Batches: batches, Events: events}

	var grpcServer *grpc.Server
	if grpcAddr != "" {
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("listen grpc %s: %w", grpcAddr, err)
		}
		grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(grpcadapter.LoggingInterceptor))
		grpcadapter.RegisterEnvironmentServer(grpcServer, &grpcadapter.Server{
			CreateUC:  createUC,
			ResetUC:   resetUC,
			DeleteUC:  deleteUC,
			StepUC:    stepUC,
			ObserveUC: observeUC,
			StatusUC:  statusUC,
			ReplayUC:  replayUC,
		})
		go func() {
			hlog.Infof("droneswarm grpc listening on %s", grpcAddr)
			if err := grpcServer.Serve(lis); err != nil {
				hlog.Errorf("grpc serve: %v", err)
			}
		}()
	}

	h := httpadapter.Handler{
		CreateUC:  createUC,
		ResetUC:   resetUC,
		DeleteUC:  deleteUC,
		ListUC:    batch.ListUseCase{Batches: batches},
		StepUC:    stepUC,
		ObserveUC: observeUC,
		StatusUC:  statusUC,
		ReplayUC:  replayUC,
		KPI:       kpi,
	}
	s := server.Default(server.WithHostPorts(httpAddr))
	h.RegisterRoutes(s)

	hlog.Infof("droneswarm http listening on %s", httpAddr)
	s.Spin()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return nil
}
