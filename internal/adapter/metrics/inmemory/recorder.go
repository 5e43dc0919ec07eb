package inmemory

import "sync"

type Snapshot struct {
	BatchesCreated uint64 `json:"batches_created"`
	Resets         uint64 `json:"resets"`
	Steps          uint64 `json:"steps"`
	AgentSteps     uint64 `json:"agent_steps"`
	Terminations   uint64 `json:"terminations"`
	Failures       uint64 `json:"failures"`
}

type Recorder struct {
	mu           sync.Mutex
	created      uint64
	resets       uint64
	steps        uint64
	agentSteps   uint64
	terminations uint64
	failures     uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordCreate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *Recorder) RecordReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

// RecordStep counts one batch tick covering agents drones, terminals of which
// ended an episode.
func (r *Recorder) RecordStep(agents, terminals int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	r.agentSteps += uint64(agents)
	r.terminations += uint64(terminals)
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		BatchesCreated: r.created,
		Resets:         r.resets,
		Steps:          r.steps,
		AgentSteps:     r.agentSteps,
		Terminations:   r.terminations,
		Failures:       r.failures,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
