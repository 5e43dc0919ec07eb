// Package task generates per-agent targets for each task variant. Every
// variant is one Generator in the table below.
package task

import (
	"math"

	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

type ID string

const (
	Idle      ID = "idle"
	Hover     ID = "hover"
	Orbit     ID = "orbit"
	Follow    ID = "follow"
	Cube      ID = "cube"
	Congo     ID = "congo"
	Flag      ID = "flag"
	Race      ID = "race"
	PickPlace ID = "pickplace"
)

const (
	orbitRadius    = 8.0
	cubeSpacing    = 4.0
	cubeOffset     = -6.0
	cubeSide       = 4
	flagColumns    = 8
	congoLeadTicks = 40
)

// Context is the batch state a generator may read. Generators never write to
// Agents; Assign does.
type Context struct {
	Agents      []swarm.Agent
	Rings       []Ring
	Bounds      swarm.Bounds
	Rand        rng.Source
	TargetSpeed float64
}

type Generator func(c Context, i int) swarm.Target

func registry() map[ID]Generator {
	return map[ID]Generator{
		Idle:      idleTarget,
		Hover:     hoverTarget,
		Orbit:     orbitTarget,
		Follow:    followTarget,
		Cube:      cubeTarget,
		Congo:     congoTarget,
		Flag:      flagTarget,
		Race:      raceTarget,
		PickPlace: pickPlaceTarget,
	}
}

var generators = registry()

func Lookup(id ID) (Generator, bool) {
	g, ok := generators[id]
	return g, ok
}

func Valid(id ID) bool {
	_, ok := generators[id]
	return ok
}

// All lists the registered variants in a stable order.
func All() []ID {
	return []ID{Idle, Hover, Orbit, Follow, Cube, Congo, Flag, Race, PickPlace}
}

// Assign writes the variant's target for agent i. Outside pick-and-place the
// hidden point mirrors the target.
func Assign(c Context, id ID, i int) {
	g, ok := generators[id]
	if !ok {
		g = hoverTarget
	}
	a := &c.Agents[i]
	a.Target = g(c, i)
	if id != PickPlace {
		a.Hidden = a.Target
	}
}

// MoveTarget drifts t by its velocity and reflects each velocity component
// whose position crossed the spawn box on that axis.
func MoveTarget(t swarm.Target, b swarm.Bounds) swarm.Target {
	lim := b.Spawn()
	t.Pos = r3.Add(t.Pos, t.Vel)
	if t.Pos.X < -lim.X || t.Pos.X > lim.X {
		t.Vel.X = -t.Vel.X
	}
	if t.Pos.Y < -lim.Y || t.Pos.Y > lim.Y {
		t.Vel.Y = -t.Vel.Y
	}
	if t.Pos.Z < -lim.Z || t.Pos.Z > lim.Z {
		t.Vel.Z = -t.Vel.Z
	}
	return t
}

func idleTarget(c Context, _ int) swarm.Target {
	lim := c.Bounds.Spawn()
	v := c.TargetSpeed
	return swarm.Target{
		Pos: r3.Vec{
			X: rng.Uniform(c.Rand, -lim.X, lim.X),
			Y: rng.Uniform(c.Rand, -lim.Y, lim.Y),
			Z: rng.Uniform(c.Rand, -lim.Z, lim.Z),
		},
		Vel: r3.Vec{
			X: rng.Uniform(c.Rand, -v, v),
			Y: rng.Uniform(c.Rand, -v, v),
			Z: rng.Uniform(c.Rand, -v, v),
		},
	}
}

func hoverTarget(c Context, i int) swarm.Target {
	return swarm.Target{Pos: c.Agents[i].State.Pos}
}

// orbitTarget spreads agents over a Fibonacci sphere.
func orbitTarget(c Context, i int) swarm.Target {
	n := float64(len(c.Agents))
	phi := math.Pi * (math.Sqrt(5) - 1)
	y := 1 - 2*float64(i)/n
	radius := math.Sqrt(math.Max(0, 1-y*y))
	theta := phi * float64(i)
	return swarm.Target{Pos: r3.Vec{
		X: orbitRadius * math.Cos(theta) * radius,
		Y: orbitRadius * math.Sin(theta) * radius,
		Z: orbitRadius * y,
	}}
}

func followTarget(c Context, i int) swarm.Target {
	if i == 0 {
		return idleTarget(c, i)
	}
	return c.Agents[0].Target
}

func cubeTarget(_ Context, i int) swarm.Target {
	layer := i / (cubeSide * cubeSide)
	cell := i % (cubeSide * cubeSide)
	return swarm.Target{Pos: r3.Vec{
		X: cubeSpacing*float64(cell%cubeSide) + cubeOffset,
		Y: cubeSpacing*float64(cell/cubeSide) + cubeOffset,
		Z: cubeSpacing*float64(layer) + cubeOffset,
	}}
}

// congoTarget trails the previous agent's target by a fixed lead.
func congoTarget(c Context, i int) swarm.Target {
	if i == 0 {
		return idleTarget(c, i)
	}
	t := c.Agents[i-1].Target
	for range congoLeadTicks {
		t = MoveTarget(t, c.Bounds)
	}
	return t
}

func flagTarget(_ Context, i int) swarm.Target {
	col := float64(i % flagColumns)
	row := float64(i / flagColumns)
	return swarm.Target{Pos: r3.Vec{Y: 2*col - 7, Z: 5 - 1.5*row}}
}

func raceTarget(c Context, i int) swarm.Target {
	if len(c.Rings) == 0 {
		return hoverTarget(c, i)
	}
	a := &c.Agents[i]
	return swarm.Target{Pos: c.Rings[a.RingIdx%len(c.Rings)].Pos}
}

func pickPlaceTarget(c Context, i int) swarm.Target {
	a := &c.Agents[i]
	if a.Gripping {
		return swarm.Target{Pos: a.Cargo.DropPos}
	}
	return swarm.Target{Pos: a.Cargo.BoxPos}
}

// Select draws the variant for a full batch reset: pick-and-place with
// probability bias when pooled, otherwise uniform over the pool.
func Select(src rng.Source, pool []ID, bias float64) ID {
	if len(pool) == 0 {
		return PickPlace
	}
	hasPickPlace := false
	for _, id := range pool {
		if id == PickPlace {
			hasPickPlace = true
			break
		}
	}
	if hasPickPlace && src.Float64() < bias {
		return PickPlace
	}
	return pool[rng.Index(src, len(pool))]
}
