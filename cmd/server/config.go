package main

import (
	"os"
	"strconv"
	"strings"

	"droneswarm/internal/domain/sim"
	"droneswarm/internal/domain/task"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// simConfigFromEnv overlays DRONESWARM_* variables on sim.DefaultConfig.
func simConfigFromEnv() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.NumAgents = intEnv("DRONESWARM_NUM_AGENTS", cfg.NumAgents)
	cfg.Seed = uint64(intEnv("DRONESWARM_SEED", int(cfg.Seed)))
	cfg.Horizon = intEnv("DRONESWARM_HORIZON", cfg.Horizon)
	cfg.DT = floatEnv("DRONESWARM_DT", cfg.DT)
	cfg.HalfExtent.X = floatEnv("DRONESWARM_HALF_EXTENT_X", cfg.HalfExtent.X)
	cfg.HalfExtent.Y = floatEnv("DRONESWARM_HALF_EXTENT_Y", cfg.HalfExtent.Y)
	cfg.HalfExtent.Z = floatEnv("DRONESWARM_HALF_EXTENT_Z", cfg.HalfExtent.Z)
	cfg.MaxRings = intEnv("DRONESWARM_MAX_RINGS", cfg.MaxRings)
	cfg.PickPlaceBias = floatEnv("DRONESWARM_PICKPLACE_BIAS", cfg.PickPlaceBias)
	cfg.OOBPenalty = floatEnv("DRONESWARM_OOB_PENALTY", cfg.OOBPenalty)
	cfg.Curriculum.HorizonSteps = floatEnv("DRONESWARM_CURRICULUM_STEPS", cfg.Curriculum.HorizonSteps)
	if tasks := tasksEnv("DRONESWARM_TASKS"); len(tasks) > 0 {
		cfg.Tasks = tasks
	}
	return cfg
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// tasksEnv reads a comma separated task list, skipping unknown names.
func tasksEnv(key string) []task.ID {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	return parseTasks(strings.Split(raw, ","))
}

func parseTasks(names []string) []task.ID {
	var out []task.ID
	for _, name := range names {
		id := task.ID(strings.TrimSpace(name))
		if id == "" {
			continue
		}
		if !task.Valid(id) {
			hlog.Warnf("ignoring unknown task %q", id)
			continue
		}
		out = append(out, id)
	}
	return out
}

func logLevel(name string) hlog.Level {
	switch strings.ToLower(name) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "notice":
		return hlog.LevelNotice
	case "warn", "warning":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}
