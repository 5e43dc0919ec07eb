package task

import (
	"math"

	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

const ringPlacementAttempts = 1000

type Ring struct {
	Pos    r3.Vec
	Normal r3.Vec
	Radius float64
}

// ResetRings lays out a course of n rings inside the spawn box. Consecutive
// rings are at least two radii apart and each faces away from its predecessor.
func ResetRings(src rng.Source, b swarm.Bounds, n int, radius float64) []Ring {
	rings := make([]Ring, 0, n)
	lim := b.Spawn()
	lim = r3.Vec{X: math.Max(lim.X-radius, 0), Y: math.Max(lim.Y-radius, 0), Z: math.Max(lim.Z-radius, 0)}
	sample := func() r3.Vec {
		return r3.Vec{
			X: rng.Uniform(src, -lim.X, lim.X),
			Y: rng.Uniform(src, -lim.Y, lim.Y),
			Z: rng.Uniform(src, -lim.Z, lim.Z),
		}
	}

	for i := 0; i < n; i++ {
		pos := sample()
		if i == 0 {
			yaw := rng.Uniform(src, -math.Pi, math.Pi)
			rings = append(rings, Ring{Pos: pos, Normal: r3.Vec{X: math.Cos(yaw), Y: math.Sin(yaw)}, Radius: radius})
			continue
		}
		prev := rings[i-1].Pos
		for attempt := 0; attempt < ringPlacementAttempts && r3.Norm(r3.Sub(pos, prev)) < 2*radius; attempt++ {
			pos = sample()
		}
		normal := r3.Sub(pos, prev)
		if r3.Norm(normal) < 1e-9 {
			normal = r3.Vec{X: 1}
		}
		rings = append(rings, Ring{Pos: pos, Normal: r3.Unit(normal), Radius: radius})
	}
	return rings
}

// CheckRing scores the segment prev->curr against ring: 1 for a pass through
// the disc along the normal, -1 for crossing the plane outside it, 0 otherwise.
func CheckRing(prev, curr r3.Vec, ring Ring) float64 {
	d0 := r3.Dot(r3.Sub(prev, ring.Pos), ring.Normal)
	d1 := r3.Dot(r3.Sub(curr, ring.Pos), ring.Normal)
	if !(d0 < 0 && d1 >= 0) {
		return 0
	}
	t := d0 / (d0 - d1)
	hit := r3.Add(prev, r3.Scale(t, r3.Sub(curr, prev)))
	if r3.Norm(r3.Sub(hit, ring.Pos)) < ring.Radius {
		return 1
	}
	return -1
}
