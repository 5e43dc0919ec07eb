package swarm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is the flight volume: a box of HalfExtent centred on the origin with
// a spawn margin kept clear of each face.
type Bounds struct {
	HalfExtent r3.Vec
	Margin     float64
}

func (b Bounds) Spawn() r3.Vec {
	return r3.Vec{
		X: b.HalfExtent.X - b.Margin,
		Y: b.HalfExtent.Y - b.Margin,
		Z: b.HalfExtent.Z - b.Margin,
	}
}

// Outside reports whether p left the volume on any axis.
func (b Bounds) Outside(p r3.Vec) bool {
	return math.Abs(p.X) > b.HalfExtent.X ||
		math.Abs(p.Y) > b.HalfExtent.Y ||
		math.Abs(p.Z) > b.HalfExtent.Z
}

// Normalize scales p by the half extents.
func (b Bounds) Normalize(p r3.Vec) r3.Vec {
	return r3.Vec{X: p.X / b.HalfExtent.X, Y: p.Y / b.HalfExtent.Y, Z: p.Z / b.HalfExtent.Z}
}

// Floor is the lowest legal altitude.
func (b Bounds) Floor() float64 {
	return -b.HalfExtent.Z
}
