package replay

import "droneswarm/internal/domain/episode"

type Request struct {
	BatchID string
	Limit   int
}

type Response struct {
	BatchID string          `json:"batch_id"`
	Events  []episode.Event `json:"events"`
	Summary Summary         `json:"summary"`
}

type Summary struct {
	Episodes       int     `json:"episodes"`
	OutOfBounds    int     `json:"out_of_bounds"`
	MeanReturn     float64 `json:"mean_return"`
	MeanLength     float64 `json:"mean_length"`
	Deliveries     int     `json:"deliveries"`
	Grips          int     `json:"grips"`
	LastGlobalTick uint64  `json:"last_global_tick"`
}
