package step

import (
	"droneswarm/internal/domain/episode"
	"droneswarm/internal/domain/task"
)

type Request struct {
	BatchID string
	Actions []float64
	// Repeat applies the same actions for this many ticks; rewards are summed
	// and terminals or-ed across them. Zero means one tick.
	Repeat int
}

type Response struct {
	BatchID      string          `json:"batch_id"`
	Task         task.ID         `json:"task"`
	Tick         int             `json:"tick"`
	GlobalTick   uint64          `json:"global_tick"`
	Observations []float64       `json:"observations"`
	Rewards      []float64       `json:"rewards"`
	Terminals    []bool          `json:"terminals"`
	Episodes     []episode.Event `json:"episodes,omitempty"`
}
