package pickplace

import (
	"math"

	"droneswarm/internal/domain/curriculum"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

// Metrics is an agent's relation to a leg's anchor (box or drop zone).
type Metrics struct {
	DistHidden float64
	XY         float64
	ZAbove     float64
	Speed      float64
	VelZ       float64
}

func measure(a *swarm.Agent, anchor r3.Vec) Metrics {
	pos := a.State.Pos
	return Metrics{
		DistHidden: r3.Norm(r3.Sub(pos, a.Hidden.Pos)),
		XY:         math.Hypot(pos.X-anchor.X, pos.Y-anchor.Y),
		ZAbove:     pos.Z - anchor.Z,
		Speed:      r3.Norm(a.State.Vel),
		VelZ:       a.State.Vel.Z,
	}
}

type Gate func(m Metrics, g curriculum.Gates) bool

// Leg is one approach -> hover -> descend sub-machine. Pickup and drop are two
// instances differing only in gates and offsets.
type Leg struct {
	Arrived      Gate
	AlignFrac    float64
	Complete     Gate
	NearMiss     Gate
	ArriveReward float64
	HiddenOffset float64
	HoldOffset   float64
	DescentRate  float64
}

// Outcome reports what happened on a leg this tick.
type Outcome struct {
	Arrived   bool
	Completed bool
	NearMiss  bool
}

// Next is the leg's transition function.
func (l Leg) Next(state swarm.LegState, m Metrics, g curriculum.Gates) (swarm.LegState, Outcome) {
	switch state {
	case swarm.LegApproach:
		if l.Arrived(m, g) {
			return swarm.LegHover, Outcome{Arrived: true}
		}
		return swarm.LegApproach, Outcome{}
	case swarm.LegHover, swarm.LegDescend:
		next := swarm.LegHover
		if m.XY <= g.GripFloor()*l.AlignFrac {
			next = swarm.LegDescend
		}
		if next == swarm.LegDescend && l.Complete(m, g) {
			return swarm.LegDone, Outcome{Completed: true}
		}
		return next, Outcome{NearMiss: l.NearMiss(m, g)}
	default:
		return state, Outcome{}
	}
}

// steer points the hidden target for the leg's new state.
func (l Leg) steer(a *swarm.Agent, anchor r3.Vec, state swarm.LegState) {
	h := &a.Hidden
	switch state {
	case swarm.LegApproach:
		h.Pos = r3.Vec{X: anchor.X, Y: anchor.Y, Z: anchor.Z + l.HiddenOffset}
		h.Vel = r3.Vec{}
	case swarm.LegHover:
		h.Pos.X, h.Pos.Y = anchor.X, anchor.Y
		h.Pos.Z = math.Max(h.Pos.Z, anchor.Z+l.HoldOffset)
		h.Vel = r3.Vec{}
	case swarm.LegDescend:
		h.Pos.X, h.Pos.Y = anchor.X, anchor.Y
		h.Vel = r3.Vec{Z: -l.DescentRate}
	}
}

func pickupLeg(t Tolerances) Leg {
	return Leg{
		Arrived: func(m Metrics, g curriculum.Gates) bool {
			nearHidden := m.DistHidden < t.HoverDist && m.Speed < t.HoverSpeed
			aboveBox := m.XY <= g.GripFloor()*t.FallbackXYFrac && m.ZAbove > t.FallbackClearance && m.Speed < t.FallbackSpeed
			return nearHidden || aboveBox
		},
		AlignFrac: t.PickupAlignFrac,
		Complete: func(m Metrics, g curriculum.Gates) bool {
			k := g.Grip
			return m.XY < k*t.GripXYFrac &&
				m.ZAbove > 0 && m.ZAbove < k*t.GripZFrac &&
				m.Speed < math.Max(t.GripSpeedFloor, k*t.GripSpeedFrac) &&
				m.VelZ > -math.Max(t.GripDescentFloor, k*t.GripDescentFrac) && m.VelZ < 0
		},
		NearMiss: func(m Metrics, g curriculum.Gates) bool {
			if m.DistHidden <= t.NearMissHidden && m.Speed <= t.NearMissHidden {
				return false
			}
			return nearMiss(t, m, g)
		},
		HiddenOffset: t.PickupHiddenOffset,
		HoldOffset:   t.HoldOffset,
		DescentRate:  t.DescentRate,
	}
}

func dropLeg(t Tolerances) Leg {
	return Leg{
		Arrived: func(m Metrics, g curriculum.Gates) bool {
			return m.XY < g.Grip*t.DropXYFrac && m.ZAbove > t.DropClearance && m.Speed < t.DropSpeed
		},
		AlignFrac: t.DropAlignFrac,
		Complete: func(m Metrics, g curriculum.Gates) bool {
			kf := g.GripFloor()
			return m.XY < kf*t.DeliverXYFrac && m.ZAbove < kf*t.DeliverZFrac
		},
		NearMiss: func(m Metrics, g curriculum.Gates) bool {
			return nearMiss(t, m, g)
		},
		ArriveReward: t.DropArriveBonus,
		HiddenOffset: t.DropHiddenOffset,
		HoldOffset:   t.HoldOffset,
		DescentRate:  t.DescentRate,
	}
}

func nearMiss(t Tolerances, m Metrics, g curriculum.Gates) bool {
	return m.XY < g.GripFloor()*t.NearMissXYFrac &&
		m.ZAbove > t.NearMissZMin && m.ZAbove < t.NearMissZMax &&
		m.Speed < t.NearMissSpeed
}
