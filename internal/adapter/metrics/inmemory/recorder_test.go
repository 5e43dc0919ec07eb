package inmemory

import "testing"

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordCreate()
	r.RecordReset()
	r.RecordStep(64, 3)
	r.RecordStep(64, 0)
	r.RecordFailure()

	s := r.Snapshot()
	if s.BatchesCreated != 1 {
		t.Fatalf("expected created 1, got %d", s.BatchesCreated)
	}
	if s.Resets != 1 {
		t.Fatalf("expected resets 1, got %d", s.Resets)
	}
	if s.Steps != 2 {
		t.Fatalf("expected steps 2, got %d", s.Steps)
	}
	if s.AgentSteps != 128 {
		t.Fatalf("expected agent steps 128, got %d", s.AgentSteps)
	}
	if s.Terminations != 3 {
		t.Fatalf("expected terminations 3, got %d", s.Terminations)
	}
	if s.Failures != 1 {
		t.Fatalf("expected failures 1, got %d", s.Failures)
	}
}
