package flight

import "droneswarm/internal/domain/rng"

// Payload is a gripped box modelled as a point mass hanging under the airframe.
type Payload struct {
	Mass float64
	Size float64
}

// WithPayload returns p with the payload's mass, inertia and drag folded in.
// The caller keeps p as the base set and restores it on release.
func (p Params) WithPayload(pl Payload, src rng.Source) Params {
	out := p
	out.Mass = p.Mass + pl.Mass*rng.Uniform(src, 0.9, 1.1)

	half := pl.Size / 2
	added := pl.Mass * half * half * rng.Uniform(src, 0.8, 1.2)
	out.Ixx = p.Ixx + added
	out.Iyy = p.Iyy + added
	out.Izz = p.Izz + added*0.5

	mult := 1.0
	if p.ArmLen > 0 {
		mult += pl.Size / p.ArmLen * rng.Uniform(src, 0.5, 1.0)
	}
	out.KDrag = p.KDrag * mult
	out.BDrag = p.BDrag * mult
	return out
}
