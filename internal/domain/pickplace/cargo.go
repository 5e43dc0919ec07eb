package pickplace

import (
	"math"

	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

const placementAttempts = 1000

// ResetCargo starts a fresh pick cycle for a: new box and drop zone on the
// floor, the agent respawned at rest above the box, both legs at approach.
func (m Machine) ResetCargo(a *swarm.Agent, payloadGate float64, src rng.Source) {
	l := m.cfg.Layout
	lim := m.bounds.Spawn()
	spanX := math.Max(lim.X-l.EdgeMargin, 0)
	spanY := math.Max(lim.Y-l.EdgeMargin, 0)
	floorZ := m.bounds.Floor() + l.FloorClearance
	sample := func() r3.Vec {
		return r3.Vec{X: rng.Uniform(src, -spanX, spanX), Y: rng.Uniform(src, -spanY, spanY), Z: floorZ}
	}

	box := sample()
	drop := sample()
	for i := 0; i < placementAttempts && math.Hypot(drop.X-box.X, drop.Y-box.Y) < l.MinSeparation; i++ {
		drop = sample()
	}

	size := rng.Uniform(src, 0.05, math.Max(a.Base.ArmLen*4, 0.1))
	baseMass := l.BoxDensity * size * size * size * rng.Uniform(src, 0.5, 2.0)
	a.Cargo = swarm.Cargo{
		BoxPos:      box,
		DropPos:     drop,
		BoxSize:     size,
		BoxBaseMass: baseMass,
		BoxMass:     payloadGate * baseMass,
	}
	a.ResetPhases()
	a.Detach()

	a.Target = swarm.Target{Pos: box}
	a.Hidden = swarm.Target{Pos: r3.Add(box, r3.Vec{Z: m.cfg.Tolerances.PickupHiddenOffset})}

	r := rng.Uniform(src, l.SpawnRadiusMin, l.SpawnRadiusMax)
	theta := rng.Uniform(src, 0, 2*math.Pi)
	xLim := math.Max(lim.X-l.SpawnXYInset, 0)
	yLim := math.Max(lim.Y-l.SpawnXYInset, 0)
	zLim := math.Max(lim.Z-l.SpawnZInset, 0)
	spawn := r3.Vec{
		X: clamp(box.X+r*math.Cos(theta), -xLim, xLim),
		Y: clamp(box.Y+r*math.Sin(theta), -yLim, yLim),
		Z: clamp(box.Z+rng.Uniform(src, l.SpawnHeightMin, l.SpawnHeightMax), -zLim, zLim),
	}
	a.State.Pos = spawn
	a.PrevPos = spawn
	a.State.Vel = r3.Vec{}
	a.State.Omega = r3.Vec{}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
