package flight

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the rigid-body state advanced by Step. Omega is body-frame; Quat
// maps body to world.
type State struct {
	Pos   r3.Vec
	Vel   r3.Vec
	Quat  quat.Number
	Omega r3.Vec
	RPMs  [4]float64
}

// Level returns a state at rest at pos with identity orientation.
func Level(pos r3.Vec) State {
	return State{Pos: pos, Quat: quat.Number{Real: 1}}
}

func (s State) ToWorld(v r3.Vec) r3.Vec {
	return r3.Rotation(s.Quat).Rotate(v)
}

func (s State) ToBody(v r3.Vec) r3.Vec {
	return r3.Rotation(quat.Conj(s.Quat)).Rotate(v)
}

// Up is the body z axis expressed in the world frame.
func (s State) Up() r3.Vec {
	return s.ToWorld(r3.Vec{Z: 1})
}
