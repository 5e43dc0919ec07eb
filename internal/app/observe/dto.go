package observe

import "droneswarm/internal/domain/task"

type Request struct {
	BatchID string
	// Detail adds per-agent and ring state next to the flat observation
	// buffer.
	Detail bool
}

type Response struct {
	BatchID      string      `json:"batch_id"`
	Task         task.ID     `json:"task"`
	Tick         int         `json:"tick"`
	NumAgents    int         `json:"num_agents"`
	ObsWidth     int         `json:"obs_width"`
	Observations []float64   `json:"observations"`
	Agents       []AgentView `json:"agents,omitempty"`
	Rings        []RingView  `json:"rings,omitempty"`
}

type AgentView struct {
	Index    int        `json:"index"`
	Size     float64    `json:"size"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Target   [3]float64 `json:"target"`
	Hidden   [3]float64 `json:"hidden"`
	Box      [3]float64 `json:"box"`
	Drop     [3]float64 `json:"drop"`
	Gripping bool       `json:"gripping"`
	Pickup   string     `json:"pickup_phase,omitempty"`
	DropLeg  string     `json:"drop_phase,omitempty"`
	RingIdx  int        `json:"ring_index"`
	Return   float64    `json:"episode_return"`
	Length   int        `json:"episode_length"`
}

type RingView struct {
	Position [3]float64 `json:"position"`
	Normal   [3]float64 `json:"normal"`
	Radius   float64    `json:"radius"`
}
