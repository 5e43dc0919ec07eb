// Package episode decides when an agent's episode ends and accumulates the
// per-episode statistics the training side reads.
package episode

import (
	"math"

	"droneswarm/internal/domain/swarm"
)

type Cause string

const (
	CauseOutOfBounds Cause = "oob"
	CauseHorizon     Cause = "horizon"
)

// Event is one finished episode.
type Event struct {
	Agent      int     `json:"agent"`
	Cause      Cause   `json:"cause"`
	Task       string  `json:"task"`
	Return     float64 `json:"return"`
	Score      float64 `json:"score"`
	Length     int     `json:"length"`
	Collisions int     `json:"collisions"`
	Grips      int     `json:"grips"`
	Deliveries int     `json:"deliveries"`
	Tick       int     `json:"tick"`
	GlobalTick uint64  `json:"global_tick"`
}

// Log is the running aggregate. Sums grow until the reader calls Reset.
type Log struct {
	Perf            float64
	Score           float64
	EpisodeReturn   float64
	EpisodeLength   float64
	CollisionRate   float64
	OOB             float64
	RingsPassed     float64
	ToPickup        float64
	HoPickup        float64
	DePickup        float64
	Gripping        float64
	ToDrop          float64
	HoDrop          float64
	DeDrop          float64
	Delivered       float64
	GraspSuccess    float64
	DeliverySuccess float64
	PerfectGrip     float64
	PerfectDeliv    float64
	AttemptGrip     float64
	AttemptDrop     float64
	N               float64
}

// Record folds a finished episode of a into the log.
func (l *Log) Record(a *swarm.Agent, cause Cause) {
	ep := &a.Episode
	length := math.Max(float64(ep.Length), 1)
	l.Score += ep.Score
	l.EpisodeReturn += ep.Return
	l.EpisodeLength += float64(ep.Length)
	l.CollisionRate += float64(ep.Collisions) / length
	l.Perf += ep.Score / length
	if cause == CauseOutOfBounds {
		l.OOB++
	}
	l.RingsPassed += float64(ep.RingsPassed)
	l.GraspSuccess += float64(ep.Grips)
	l.DeliverySuccess += float64(ep.Deliveries)
	l.PerfectGrip += float64(ep.PerfectGrips)
	l.PerfectDeliv += float64(ep.PerfectDeliv)
	l.AttemptGrip += float64(ep.AttemptGrip)
	l.AttemptDrop += float64(ep.AttemptDrop)
	l.N++
}

// Occupy counts one tick of phase occupancy.
func (l *Log) Occupy(f swarm.PhaseFlags) {
	if f.ApproachingPickup {
		l.ToPickup++
	}
	if f.HoveringPickup {
		l.HoPickup++
	}
	if f.DescendingPickup {
		l.DePickup++
	}
	if f.Gripping {
		l.Gripping++
	}
	if f.ApproachingDrop {
		l.ToDrop++
	}
	if f.HoveringDrop {
		l.HoDrop++
	}
	if f.DescendingDrop {
		l.DeDrop++
	}
	if f.Delivered {
		l.Delivered++
	}
}

func (l *Log) Reset() {
	*l = Log{}
}

// Map is the flat view handed to the training framework.
func (l Log) Map() map[string]float64 {
	return map[string]float64{
		"perf":             l.Perf,
		"score":            l.Score,
		"episode_return":   l.EpisodeReturn,
		"episode_length":   l.EpisodeLength,
		"collision_rate":   l.CollisionRate,
		"oob":              l.OOB,
		"rings_passed":     l.RingsPassed,
		"to_pickup":        l.ToPickup,
		"ho_pickup":        l.HoPickup,
		"de_pickup":        l.DePickup,
		"gripping":         l.Gripping,
		"to_drop":          l.ToDrop,
		"ho_drop":          l.HoDrop,
		"de_drop":          l.DeDrop,
		"delivered":        l.Delivered,
		"grasp_success":    l.GraspSuccess,
		"delivery_success": l.DeliverySuccess,
		"perfect_grip":     l.PerfectGrip,
		"perfect_deliv":    l.PerfectDeliv,
		"attempt_grip":     l.AttemptGrip,
		"attempt_drop":     l.AttemptDrop,
		"n":                l.N,
	}
}
