package status

import "droneswarm/internal/domain/task"

type Request struct {
	BatchID string
	// ResetLog zeroes the batch's episode log after it has been read.
	ResetLog bool
}

type Response struct {
	BatchID    string             `json:"batch_id"`
	Task       task.ID            `json:"task"`
	NumAgents  int                `json:"num_agents"`
	Tick       int                `json:"tick"`
	GlobalTick uint64             `json:"global_tick"`
	Gates      Gates              `json:"gates"`
	Log        map[string]float64 `json:"log"`
	Means      map[string]float64 `json:"means"`
}

type Gates struct {
	Grip     float64 `json:"grip"`
	Payload  float64 `json:"payload"`
	Annealed bool    `json:"annealed"`
}
