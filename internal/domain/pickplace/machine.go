package pickplace

import (
	"droneswarm/internal/domain/curriculum"
	"droneswarm/internal/domain/flight"
	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

type Config struct {
	Tolerances    Tolerances
	Layout        Layout
	GripReward    float64
	DeliverReward float64
	DT            float64
}

func DefaultConfig() Config {
	return Config{
		Tolerances:    DefaultTolerances(),
		Layout:        DefaultLayout(),
		GripReward:    0.5,
		DeliverReward: 1.0,
		DT:            0.05,
	}
}

// Effects are the side effects a tick's transitions ask for. Step only decides;
// Apply carries them out.
type Effects struct {
	Reward       float64
	Attach       bool
	Detach       bool
	Bump         bool
	Respawn      bool
	Rebaseline   bool
	Gripped      bool
	Delivered    bool
	PerfectGrip  bool
	PerfectDeliv bool
	AttemptGrip  bool
	AttemptDrop  bool
}

type Machine struct {
	cfg    Config
	bounds swarm.Bounds
	pickup Leg
	drop   Leg
}

func NewMachine(cfg Config, b swarm.Bounds) Machine {
	return Machine{
		cfg:    cfg,
		bounds: b,
		pickup: pickupLeg(cfg.Tolerances),
		drop:   dropLeg(cfg.Tolerances),
	}
}

func (m Machine) Config() Config { return m.cfg }

// Advance integrates the hidden target. It never sinks below the task target;
// on contact its vertical velocity is zeroed.
func (m Machine) Advance(a *swarm.Agent) {
	h := &a.Hidden
	h.Pos = r3.Add(h.Pos, r3.Scale(m.cfg.DT, h.Vel))
	if h.Pos.Z < a.Target.Pos.Z {
		h.Pos.Z = a.Target.Pos.Z
		h.Vel.Z = 0
	}
}

// Step runs one tick of the active sub-machine for a and returns the effects
// its transitions requested. Only agent-local controller state (phases,
// targets, carried box position) is written here.
func (m Machine) Step(a *swarm.Agent, g curriculum.Gates) Effects {
	a.Cargo.BoxMass = g.Payload * a.Cargo.BoxBaseMass
	if !a.Gripping {
		return m.stepPickup(a, g)
	}
	return m.stepDrop(a, g)
}

func (m Machine) stepPickup(a *swarm.Agent, g curriculum.Gates) Effects {
	var eff Effects
	anchor := a.Cargo.BoxPos
	a.Target = swarm.Target{Pos: anchor}

	next, out := m.pickup.Next(a.Pickup, measure(a, anchor), g)
	m.pickup.steer(a, anchor, next)
	a.Pickup = next
	eff.AttemptGrip = out.NearMiss

	if out.Completed {
		a.Gripping = true
		a.Cargo.BoxGripped = true
		a.Drop = swarm.LegApproach
		a.Target = swarm.Target{Pos: a.Cargo.DropPos}
		m.drop.steer(a, a.Cargo.DropPos, swarm.LegApproach)

		eff.Gripped = true
		eff.Attach = true
		eff.Bump = true
		eff.Rebaseline = true
		eff.Reward += m.cfg.GripReward
		eff.PerfectGrip = g.Annealed
	}
	return eff
}

func (m Machine) stepDrop(a *swarm.Agent, g curriculum.Gates) Effects {
	var eff Effects
	anchor := a.Cargo.DropPos
	a.Target = swarm.Target{Pos: anchor}
	a.Cargo.BoxPos = r3.Sub(a.State.Pos, r3.Vec{Z: m.cfg.Tolerances.CarryOffset})

	next, out := m.drop.Next(a.Drop, measure(a, anchor), g)
	m.drop.steer(a, anchor, next)
	a.Drop = next
	eff.AttemptDrop = out.NearMiss

	if out.Arrived {
		eff.Reward += m.drop.ArriveReward
	}
	if out.Completed {
		a.Gripping = false
		a.Cargo.BoxGripped = false

		eff.Delivered = true
		eff.Detach = true
		eff.Respawn = true
		eff.Rebaseline = true
		eff.Reward += m.cfg.DeliverReward
		eff.PerfectDeliv = g.Annealed && a.Episode.PerfectGrip
	}
	return eff
}

// Apply executes the requested effects: payload physics, the post-grip bump,
// counters and the soft reset after a delivery.
func (m Machine) Apply(a *swarm.Agent, eff Effects, g curriculum.Gates, src rng.Source) {
	if eff.Attach {
		a.Attach(a.Base.WithPayload(flight.Payload{Mass: a.Cargo.BoxMass, Size: a.Cargo.BoxSize}, src))
	}
	if eff.Bump {
		bump(a, src)
	}
	if eff.Detach {
		a.Detach()
	}

	ep := &a.Episode
	if eff.Gripped {
		ep.Grips++
		ep.PerfectGrip = eff.PerfectGrip
		if eff.PerfectGrip {
			ep.PerfectGrips++
		}
	}
	if eff.AttemptGrip {
		ep.AttemptGrip++
	}
	if eff.AttemptDrop {
		ep.AttemptDrop++
	}
	ep.PerfectNow = false
	ep.Delivered = eff.Delivered
	if eff.Delivered {
		ep.Deliveries++
		if eff.PerfectDeliv {
			ep.PerfectDeliv++
			ep.PerfectNow = true
		}
	}
	if eff.Respawn {
		m.ResetCargo(a, g.Payload, src)
	}
}

// bump nudges a freshly gripped agent off a zero-velocity state.
func bump(a *swarm.Agent, src rng.Source) {
	s := &a.State
	s.Vel.X += rng.Uniform(src, -0.1, 0.1)
	s.Vel.Y += rng.Uniform(src, -0.1, 0.1)
	s.Vel.Z += rng.Uniform(src, 0.05, 0.3)
	s.Omega.X += rng.Uniform(src, -0.5, 0.5)
	s.Omega.Y += rng.Uniform(src, -0.5, 0.5)
	s.Omega.Z += rng.Uniform(src, -0.5, 0.5)
}
