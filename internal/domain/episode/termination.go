package episode

import "droneswarm/internal/domain/swarm"

type Limits struct {
	Bounds  swarm.Bounds
	Horizon int

	// clearance kept above the floor, and the extra clearance while carrying
	FloorClearance float64
	GripClearance  float64
}

func DefaultLimits(b swarm.Bounds) Limits {
	return Limits{Bounds: b, FloorClearance: 0.2, GripClearance: 0.1, Horizon: 1024}
}

// MinAltitude is the floor breach height for a.
func (l Limits) MinAltitude(a *swarm.Agent) float64 {
	z := l.Bounds.Floor() + l.FloorClearance
	if a.Gripping {
		z += l.GripClearance
	}
	return z
}

// OutOfBounds reports whether a left the volume or breached the floor.
func (l Limits) OutOfBounds(a *swarm.Agent) bool {
	return l.Outside(a) || l.BelowFloor(a)
}

// Outside reports whether a left the volume on any axis.
func (l Limits) Outside(a *swarm.Agent) bool {
	return l.Bounds.Outside(a.State.Pos)
}

// BelowFloor compares a's altitude against MinAltitude, so it depends on
// whether a is carrying when it is called.
func (l Limits) BelowFloor(a *swarm.Agent) bool {
	return a.State.Pos.Z < l.MinAltitude(a)
}

// HorizonReached reports whether the shared episode tick hit the horizon.
func (l Limits) HorizonReached(tick int) bool {
	return tick >= l.Horizon-1
}
