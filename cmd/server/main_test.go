package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"droneswarm/internal/domain/task"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func TestIntEnv(t *testing.T) {
	t.Setenv("DRONESWARM_TEST_INT", " 42 ")
	if got := intEnv("DRONESWARM_TEST_INT", 1); got != 42 {
		t.Fatalf("intEnv()=%d want 42", got)
	}
	t.Setenv("DRONESWARM_TEST_INT", "nope")
	if got := intEnv("DRONESWARM_TEST_INT", 1); got != 1 {
		t.Fatalf("intEnv()=%d want fallback 1", got)
	}
}

func TestFloatEnv(t *testing.T) {
	t.Setenv("DRONESWARM_TEST_FLOAT", "0.125")
	if got := floatEnv("DRONESWARM_TEST_FLOAT", 1); got != 0.125 {
		t.Fatalf("floatEnv()=%v want 0.125", got)
	}
	if got := floatEnv("DRONESWARM_TEST_FLOAT_UNSET", 2.5); got != 2.5 {
		t.Fatalf("floatEnv()=%v want fallback 2.5", got)
	}
}

func TestSimConfigFromEnv(t *testing.T) {
	t.Setenv("DRONESWARM_NUM_AGENTS", "8")
	t.Setenv("DRONESWARM_HORIZON", "300")
	t.Setenv("DRONESWARM_TASKS", "race, orbit ,bogus")

	cfg := simConfigFromEnv()
	if cfg.NumAgents != 8 || cfg.Horizon != 300 {
		t.Fatalf("unexpected overrides: agents=%d horizon=%d", cfg.NumAgents, cfg.Horizon)
	}
	want := []task.ID{task.Race, task.Orbit}
	if len(cfg.Tasks) != len(want) || cfg.Tasks[0] != want[0] || cfg.Tasks[1] != want[1] {
		t.Fatalf("tasks=%v want %v", cfg.Tasks, want)
	}
}

func TestLogLevel(t *testing.T) {
	if got := logLevel("DEBUG"); got != hlog.LevelDebug {
		t.Fatalf("logLevel(DEBUG)=%v", got)
	}
	if got := logLevel("whatever"); got != hlog.LevelInfo {
		t.Fatalf("logLevel(whatever)=%v want info", got)
	}
}

func TestRolloutLocal(t *testing.T) {
	for _, policy := range []string{"random", "hover", "zero"} {
		report, err := rolloutLocal(rolloutOptions{ticks: 50, seed: 3, agents: 4, policy: policy, tasks: []string{"pickplace"}})
		if err != nil {
			t.Fatalf("%s: rolloutLocal: %v", policy, err)
		}
		if report.Agents != 4 || report.Ticks != 50 {
			t.Fatalf("%s: unexpected report %+v", policy, report)
		}
		if _, ok := report.Log["n"]; !ok {
			t.Fatalf("%s: log missing n", policy)
		}
	}
	if _, err := rolloutLocal(rolloutOptions{ticks: 1, agents: 1, policy: "chaos"}); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := writeReport(&buf, rolloutReport{Ticks: 2, Log: map[string]float64{"n": 1}}); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["ticks"] != 2.0 {
		t.Fatalf("ticks=%v want 2", out["ticks"])
	}
}
