package sim

import (
	"droneswarm/internal/domain/swarm"
	"droneswarm/internal/domain/task"

	"gonum.org/v1/gonum/spatial/r3"
)

// ObsSize is the width of one agent's observation vector.
const ObsSize = 42

func (b *Batch) observeAll() {
	for i := range b.agents {
		b.observe(i, b.obs[i*ObsSize:(i+1)*ObsSize])
	}
}

// observe writes agent i's observation into out. Layout:
//
//	0-2   body-frame velocity / max velocity
//	3-5   world velocity, clamped
//	6-8   angular velocity / max angular velocity
//	9-11  body up vector
//	12-15 orientation quaternion (w, x, y, z)
//	16-19 rotor speed / max rpm
//	20-22 position / half extent
//	23-25 offset to effective target, clamped
//	26-28 offset to effective target / half extent
//	29-31 last collision, position and total reward
//	32-34 offset to nearest agent, clamped (zeros when alone)
//	35-41 task block
func (b *Batch) observe(i int, out []float64) {
	a := &b.agents[i]
	st := &a.State
	p := &a.Params
	maxVel := nonZero(p.MaxVel)
	maxOmega := nonZero(p.MaxOmega)
	maxRPM := nonZero(p.MaxRPM)

	k := 0
	put3 := func(v r3.Vec) {
		out[k], out[k+1], out[k+2] = v.X, v.Y, v.Z
		k += 3
	}

	put3(r3.Scale(1/maxVel, st.ToBody(st.Vel)))
	put3(clampVec(st.Vel))
	put3(r3.Scale(1/maxOmega, st.Omega))
	put3(st.Up())
	out[k], out[k+1], out[k+2], out[k+3] = st.Quat.Real, st.Quat.Imag, st.Quat.Jmag, st.Quat.Kmag
	k += 4
	for _, rpm := range st.RPMs {
		out[k] = rpm / maxRPM
		k++
	}
	put3(b.bounds.Normalize(st.Pos))

	tgt := a.EffectiveTarget(b.task == task.PickPlace)
	offset := r3.Sub(tgt.Pos, st.Pos)
	put3(clampVec(offset))
	put3(b.bounds.Normalize(offset))

	out[k], out[k+1], out[k+2] = a.Reward.LastCollision, a.Reward.LastPosition, a.Reward.LastTotal
	k += 3

	if j := swarm.Nearest(b.agents, i); j >= 0 {
		put3(clampVec(r3.Sub(b.agents[j].State.Pos, st.Pos)))
	} else {
		put3(r3.Vec{})
	}

	switch {
	case b.task == task.Race && len(b.rings) > 0:
		ring := b.rings[a.RingIdx%len(b.rings)]
		put3(b.bounds.Normalize(st.ToBody(r3.Sub(ring.Pos, st.Pos))))
		put3(st.ToBody(ring.Normal))
		out[k] = 0
	case b.task == task.PickPlace:
		put3(b.bounds.Normalize(st.ToBody(r3.Sub(a.Cargo.BoxPos, st.Pos))))
		put3(b.bounds.Normalize(st.ToBody(r3.Sub(a.Cargo.DropPos, st.Pos))))
		out[k] = 1
	default:
		for n := 0; n < 7; n++ {
			out[k+n] = 0
		}
	}
}

func clampVec(v r3.Vec) r3.Vec {
	return r3.Vec{X: clampUnit(v.X), Y: clampUnit(v.Y), Z: clampUnit(v.Z)}
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
