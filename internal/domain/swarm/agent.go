// Package swarm holds the per-agent records of a batch. It is data plus the
// read-only cross-agent proximity query; all behaviour lives in the task,
// pickplace, reward and episode packages.
package swarm

import (
	"droneswarm/internal/domain/flight"

	"gonum.org/v1/gonum/spatial/r3"
)

type Target struct {
	Pos r3.Vec
	Vel r3.Vec
}

// Cargo is the per-cycle pick-and-place geometry.
type Cargo struct {
	BoxPos      r3.Vec
	DropPos     r3.Vec
	BoxSize     float64
	BoxBaseMass float64
	BoxMass     float64
	BoxGripped  bool
}

// RewardMemory is what the reward model keeps between calls, plus the last
// term values fed back into observations.
type RewardMemory struct {
	LastTotal     float64
	LastPosition  float64
	LastCollision float64
}

type Episode struct {
	Score       float64
	Return      float64
	Length      int
	Collisions  int
	RingsPassed int

	Grips        int
	Deliveries   int
	PerfectGrips int
	PerfectDeliv int
	AttemptGrip  int
	AttemptDrop  int
	PerfectGrip  bool
	PerfectNow   bool
	Delivered    bool
	OutOfBounds  bool
}

type Agent struct {
	Index int

	State   flight.State
	PrevPos r3.Vec
	Base    flight.Params
	Params  flight.Params
	Loaded  bool
	Size    float64
	RingIdx int

	Target Target
	Hidden Target

	Cargo    Cargo
	Gripping bool
	Pickup   LegState
	Drop     LegState

	Reward  RewardMemory
	Episode Episode
}

// Attach swaps in a derived parameter set carrying the payload.
func (a *Agent) Attach(p flight.Params) {
	a.Params = p
	a.Loaded = true
}

// Detach restores the base parameters.
func (a *Agent) Detach() {
	a.Params = a.Base
	a.Loaded = false
}

// EffectiveTarget is what rewards and observations track: the hidden point
// during pick-and-place, the plain task target otherwise.
func (a *Agent) EffectiveTarget(pickPlace bool) Target {
	if pickPlace {
		return a.Hidden
	}
	return a.Target
}
