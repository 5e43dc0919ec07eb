package batch

import "droneswarm/internal/domain/task"

type CreateRequest struct {
	Seed      uint64
	NumAgents int
	Tasks     []task.ID
	Horizon   int
}

type CreateResponse struct {
	BatchID      string    `json:"batch_id"`
	NumAgents    int       `json:"num_agents"`
	ObsWidth     int       `json:"obs_width"`
	ActionWidth  int       `json:"action_width"`
	Task         task.ID   `json:"task"`
	Observations []float64 `json:"observations"`
}

type ResetRequest struct {
	BatchID string
}

type ResetResponse struct {
	BatchID      string    `json:"batch_id"`
	Task         task.ID   `json:"task"`
	Observations []float64 `json:"observations"`
}

type DeleteRequest struct {
	BatchID string
}

type ListResponse struct {
	Batches []Summary `json:"batches"`
}

type Summary struct {
	BatchID   string `json:"batch_id"`
	NumAgents int    `json:"num_agents"`
	Seed      uint64 `json:"seed"`
	CreatedAt string `json:"created_at"`
}
