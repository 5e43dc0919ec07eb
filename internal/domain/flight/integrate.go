package flight

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Substeps is the number of integration substeps per Step call.
const Substeps = 4

// Step advances s by dt under rotor commands cmds in [-1, 1].
// Rotor layout is "+": 0 on +x, 1 on -x, 2 on +y, 3 on -y; the x pair spins
// opposite to the y pair.
func Step(p Params, s *State, cmds [4]float64, dt float64) {
	if dt <= 0 {
		return
	}
	h := dt / Substeps
	lag := 1.0
	if p.KMotor > 0 {
		lag = math.Min(1, h/p.KMotor)
	}

	var target [4]float64
	for i, c := range cmds {
		target[i] = (clampUnit(c) + 1) / 2 * p.MaxRPM
	}

	for range Substeps {
		var thrust [4]float64
		total := 0.0
		for i := range s.RPMs {
			s.RPMs[i] += (target[i] - s.RPMs[i]) * lag
			thrust[i] = p.KThrust * s.RPMs[i] * s.RPMs[i]
			total += thrust[i]
		}

		force := s.ToWorld(r3.Vec{Z: total})
		force.Z -= p.Mass * p.Gravity
		force = r3.Sub(force, r3.Scale(p.KDrag, s.Vel))
		s.Vel = r3.Add(s.Vel, r3.Scale(h/p.Mass, force))
		s.Pos = r3.Add(s.Pos, r3.Scale(h, s.Vel))

		torque := r3.Vec{
			X: p.ArmLen * (thrust[2] - thrust[3]),
			Y: p.ArmLen * (thrust[1] - thrust[0]),
			Z: p.KYaw * (thrust[0] + thrust[1] - thrust[2] - thrust[3]),
		}
		w := s.Omega
		iw := r3.Vec{X: p.Ixx * w.X, Y: p.Iyy * w.Y, Z: p.Izz * w.Z}
		net := r3.Sub(r3.Sub(torque, r3.Cross(w, iw)), r3.Scale(p.BDrag, w))
		w.X += h * net.X / p.Ixx
		w.Y += h * net.Y / p.Iyy
		w.Z += h * net.Z / p.Izz
		w.X = clamp(w.X, -p.MaxOmega, p.MaxOmega)
		w.Y = clamp(w.Y, -p.MaxOmega, p.MaxOmega)
		w.Z = clamp(w.Z, -p.MaxOmega, p.MaxOmega)
		s.Omega = w

		dq := quat.Mul(s.Quat, quat.Number{Imag: w.X, Jmag: w.Y, Kmag: w.Z})
		q := quat.Add(s.Quat, quat.Scale(0.5*h, dq))
		if n := quat.Abs(q); n > 0 {
			q = quat.Scale(1/n, q)
		} else {
			q = quat.Number{Real: 1}
		}
		s.Quat = q
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, -1, 1)
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
