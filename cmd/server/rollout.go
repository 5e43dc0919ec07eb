package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	grpcadapter "droneswarm/internal/adapter/grpc"
	"droneswarm/internal/app/batch"
	"droneswarm/internal/app/status"
	"droneswarm/internal/app/step"
	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/sim"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type rolloutOptions struct {
	ticks  int
	seed   uint64
	agents int
	tasks  []string
	policy string
	remote string
}

type rolloutReport struct {
	Ticks               int                `json:"ticks"`
	Agents              int                `json:"agents"`
	Policy              string             `json:"policy"`
	Seconds             float64            `json:"seconds"`
	StepsPerSecond      float64            `json:"steps_per_second"`
	AgentStepsPerSecond float64            `json:"agent_steps_per_second"`
	Log                 map[string]float64 `json:"log"`
}

func newRolloutCmd() *cobra.Command {
	var opts rolloutOptions
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Step a batch with a fixed policy and print its episode log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				report rolloutReport
				err    error
			)
			if opts.remote != "" {
				report, err = rolloutRemote(cmd.Context(), opts)
			} else {
				report, err = rolloutLocal(opts)
			}
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.ticks, "ticks", 10000, "ticks to run")
	f.Uint64Var(&opts.seed, "seed", 1, "batch seed")
	f.IntVar(&opts.agents, "agents", 64, "agents in the batch")
	f.StringSliceVar(&opts.tasks, "task", nil, "task pool, repeatable (default pickplace)")
	f.StringVar(&opts.policy, "policy", "random", "action policy: random, hover or zero")
	f.StringVar(&opts.remote, "remote", "", "gRPC address of a running server; empty runs in-process")
	return cmd
}

type policy func(b *sim.Batch, out []float64)

func newPolicy(name string, seed uint64) (policy, error) {
	switch name {
	case "zero":
		return func(_ *sim.Batch, out []float64) { clear(out) }, nil
	case "hover":
		return func(b *sim.Batch, out []float64) {
			for i := 0; i < b.NumAgents(); i++ {
				c := b.Agent(i).Params.HoverCommand()
				for k := 0; k < sim.ActionSize; k++ {
					out[i*sim.ActionSize+k] = c
				}
			}
		}, nil
	case "random":
		src := rng.New(seed ^ 0x5eed)
		return func(_ *sim.Batch, out []float64) {
			for i := range out {
				out[i] = rng.Uniform(src, -1, 1)
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

func rolloutLocal(opts rolloutOptions) (rolloutReport, error) {
	cfg := simConfigFromEnv()
	cfg.Seed = opts.seed
	cfg.NumAgents = opts.agents
	if tasks := parseTasks(opts.tasks); len(tasks) > 0 {
		cfg.Tasks = tasks
	}
	b, err := sim.New(cfg, nil)
	if err != nil {
		return rolloutReport{}, err
	}
	act, err := newPolicy(opts.policy, opts.seed)
	if err != nil {
		return rolloutReport{}, err
	}

	actions := make([]float64, b.NumAgents()*sim.ActionSize)
	start := time.Now()
	for t := 0; t < opts.ticks; t++ {
		act(b, actions)
		b.Step(actions)
	}
	return newReport(opts, b.NumAgents(), time.Since(start), b.Log().Map()), nil
}

// rolloutRemote drives a served batch. Only the random and zero policies are
// available since airframe parameters stay on the server.
func rolloutRemote(ctx context.Context, opts rolloutOptions) (rolloutReport, error) {
	if opts.policy == "hover" {
		return rolloutReport{}, fmt.Errorf("policy %q needs an in-process batch", opts.policy)
	}
	act, err := newPolicy(opts.policy, opts.seed)
	if err != nil {
		return rolloutReport{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := grpc.NewClient(opts.remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return rolloutReport{}, fmt.Errorf("dial %s: %w", opts.remote, err)
	}
	defer conn.Close()
	client := grpcadapter.NewClient(conn)

	created, err := client.Create(ctx, batch.CreateRequest{
		Seed:      opts.seed,
		NumAgents: opts.agents,
		Tasks:     parseTasks(opts.tasks),
	})
	if err != nil {
		return rolloutReport{}, fmt.Errorf("create batch: %w", err)
	}
	defer func() { _ = client.Delete(context.Background(), created.BatchID) }()

	actions := make([]float64, created.NumAgents*sim.ActionSize)
	start := time.Now()
	for t := 0; t < opts.ticks; t++ {
		act(nil, actions)
		if _, err := client.Step(ctx, step.Request{BatchID: created.BatchID, Actions: actions}); err != nil {
			return rolloutReport{}, fmt.Errorf("step %d: %w", t, err)
		}
	}
	elapsed := time.Since(start)
	st, err := client.Status(ctx, status.Request{BatchID: created.BatchID})
	if err != nil {
		return rolloutReport{}, fmt.Errorf("status: %w", err)
	}
	return newReport(opts, created.NumAgents, elapsed, st.Log), nil
}

func newReport(opts rolloutOptions, agents int, elapsed time.Duration, log map[string]float64) rolloutReport {
	secs := max(elapsed.Seconds(), 1e-9)
	return rolloutReport{
		Ticks:               opts.ticks,
		Agents:              agents,
		Policy:              opts.policy,
		Seconds:             elapsed.Seconds(),
		StepsPerSecond:      float64(opts.ticks) / secs,
		AgentStepsPerSecond: float64(opts.ticks*agents) / secs,
		Log:                 log,
	}
}

func writeReport(w io.Writer, r rolloutReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
