package pickplace

import (
	"math"
	"testing"

	"droneswarm/internal/domain/curriculum"
	"droneswarm/internal/domain/flight"
	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

func testBounds() swarm.Bounds {
	return swarm.Bounds{HalfExtent: r3.Vec{X: 30, Y: 30, Z: 10}, Margin: 1}
}

func testAgent() *swarm.Agent {
	p := flight.NewParams(0.6, 0, rng.New(1))
	a := &swarm.Agent{Base: p, Params: p, State: flight.Level(r3.Vec{})}
	a.ResetPhases()
	return a
}

// placeOverBox puts a in the pickup leg at offset from a box on the floor.
func placeOverBox(a *swarm.Agent, offset r3.Vec, state swarm.LegState) {
	box := r3.Vec{Z: -8.5}
	a.Cargo = swarm.Cargo{BoxPos: box, DropPos: r3.Vec{X: 20, Y: 20, Z: -8.5}, BoxSize: 0.2, BoxBaseMass: 0.4}
	a.Target = swarm.Target{Pos: box}
	a.Hidden = swarm.Target{Pos: r3.Add(box, r3.Vec{Z: 0.6})}
	a.State.Pos = r3.Add(box, offset)
	a.Pickup = state
}

func TestLeg_PickupTransitions(t *testing.T) {
	leg := pickupLeg(DefaultTolerances())
	g := curriculum.Gates{Grip: 20}

	next, out := leg.Next(swarm.LegApproach, Metrics{DistHidden: 1, XY: 30, Speed: 1}, g)
	if next != swarm.LegHover || !out.Arrived {
		t.Fatalf("near hidden point: got %v %+v", next, out)
	}
	next, _ = leg.Next(swarm.LegApproach, Metrics{DistHidden: 10, XY: 30, ZAbove: 5, Speed: 1}, g)
	if next != swarm.LegApproach {
		t.Fatalf("far away: got %v", next)
	}
	next, out = leg.Next(swarm.LegApproach, Metrics{DistHidden: 10, XY: 10, ZAbove: 2, Speed: 2}, g)
	if next != swarm.LegHover || !out.Arrived {
		t.Fatalf("fallback above box: got %v", next)
	}
	next, _ = leg.Next(swarm.LegHover, Metrics{XY: 7.9, ZAbove: 10, Speed: 0}, g)
	if next != swarm.LegDescend {
		t.Fatalf("aligned hover: got %v", next)
	}
	next, _ = leg.Next(swarm.LegDescend, Metrics{XY: 8.1, ZAbove: 10, Speed: 0}, g)
	if next != swarm.LegHover {
		t.Fatalf("drifted descent should hold: got %v", next)
	}
}

func TestLeg_AlignmentUsesFlooredGate(t *testing.T) {
	leg := pickupLeg(DefaultTolerances())
	g := curriculum.Gates{Grip: 0.2}
	next, _ := leg.Next(swarm.LegHover, Metrics{XY: 0.35, ZAbove: 2}, g)
	if next != swarm.LegDescend {
		t.Fatalf("floored alignment: got %v, want descend", next)
	}
}

func TestStep_GripHappensOnce(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	g := curriculum.Gates{Grip: 20, Payload: 0.5}
	src := rng.New(3)
	a := testAgent()
	placeOverBox(a, r3.Vec{X: 0.1, Z: 0.5}, swarm.LegHover)
	a.State.Vel = r3.Vec{Z: -0.1}

	eff := m.Step(a, g)
	if !eff.Gripped || !eff.Attach || !eff.Rebaseline {
		t.Fatalf("expected grip effects, got %+v", eff)
	}
	if got, want := eff.Reward, m.Config().GripReward; got != want {
		t.Fatalf("grip reward = %v, want %v", got, want)
	}
	m.Apply(a, eff, g, src)
	if !a.Gripping || !a.Loaded {
		t.Fatalf("agent not gripping with payload: gripping=%v loaded=%v", a.Gripping, a.Loaded)
	}
	if a.Params.Mass <= a.Base.Mass {
		t.Fatalf("payload mass not applied: %v <= %v", a.Params.Mass, a.Base.Mass)
	}

	for range 50 {
		m.Advance(a)
		eff = m.Step(a, g)
		if eff.Gripped {
			t.Fatalf("grip granted again")
		}
		if eff.Reward >= m.Config().GripReward {
			t.Fatalf("grip reward re-granted: %v", eff.Reward)
		}
		m.Apply(a, eff, g, src)
	}
	if got, want := a.Episode.Grips, 1; got != want {
		t.Fatalf("grips = %d, want %d", got, want)
	}
	if got, want := a.Cargo.BoxPos, r3.Sub(a.State.Pos, r3.Vec{Z: 0.5}); got != want {
		t.Fatalf("box not pinned under agent: %+v vs %+v", got, want)
	}
}

func TestStep_PerfectGripOnlyWhenAnnealed(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	a := testAgent()
	placeOverBox(a, r3.Vec{X: 0.05, Z: 0.2}, swarm.LegDescend)
	a.State.Vel = r3.Vec{Z: -0.1}

	eff := m.Step(a, curriculum.Gates{Grip: 1, Payload: 1, Annealed: true})
	if !eff.Gripped || !eff.PerfectGrip {
		t.Fatalf("expected perfect grip, got %+v", eff)
	}

	b := testAgent()
	placeOverBox(b, r3.Vec{X: 0.05, Z: 0.2}, swarm.LegDescend)
	b.State.Vel = r3.Vec{Z: -0.1}
	eff = m.Step(b, curriculum.Gates{Grip: 1, Payload: 0.5})
	if !eff.Gripped || eff.PerfectGrip {
		t.Fatalf("expected ordinary grip, got %+v", eff)
	}
}

func TestStep_NearMissCountsWithoutReward(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	g := curriculum.Gates{Grip: 1, Payload: 0.5}
	a := testAgent()
	placeOverBox(a, r3.Vec{X: 0.3, Z: 0.5}, swarm.LegDescend)
	a.State.Vel = r3.Vec{X: 0.5}

	eff := m.Step(a, g)
	if eff.Gripped {
		t.Fatalf("unexpected grip")
	}
	if !eff.AttemptGrip {
		t.Fatalf("expected near-miss attempt")
	}
	if eff.Reward != 0 {
		t.Fatalf("near miss granted reward %v", eff.Reward)
	}
	m.Apply(a, eff, g, rng.New(1))
	if got, want := a.Episode.AttemptGrip, 1; got != want {
		t.Fatalf("attempts = %d, want %d", got, want)
	}
}

func TestAdvance_HiddenNeverBelowTarget(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	a := testAgent()
	a.Target = swarm.Target{Pos: r3.Vec{Z: -8.5}}
	a.Hidden = swarm.Target{Pos: r3.Vec{Z: -8.49}, Vel: r3.Vec{Z: -1}}
	m.Advance(a)
	if a.Hidden.Pos.Z != -8.5 {
		t.Fatalf("hidden z = %v, want clamp at -8.5", a.Hidden.Pos.Z)
	}
	if a.Hidden.Vel.Z != 0 {
		t.Fatalf("hidden vz = %v, want 0", a.Hidden.Vel.Z)
	}
}

func TestStep_DescentLowersHiddenPoint(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	g := curriculum.Gates{Grip: 20, Payload: 0.5}
	a := testAgent()
	placeOverBox(a, r3.Vec{X: 0.1, Z: 3}, swarm.LegHover)
	start := a.Hidden.Pos.Z
	for range 20 {
		m.Advance(a)
		m.Step(a, g)
	}
	if a.Pickup != swarm.LegDescend {
		t.Fatalf("pickup state = %v, want descend", a.Pickup)
	}
	if a.Hidden.Pos.Z >= start {
		t.Fatalf("hidden point did not descend: %v >= %v", a.Hidden.Pos.Z, start)
	}
}

func TestStep_DeliveryDetachesAndRespawns(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	g := curriculum.Gates{Grip: 1, Payload: 1, Annealed: true}
	src := rng.New(4)
	a := testAgent()
	drop := r3.Vec{X: 5, Y: 5, Z: -8.5}
	a.Cargo = swarm.Cargo{DropPos: drop, BoxSize: 0.2, BoxBaseMass: 0.4}
	a.Gripping = true
	a.Pickup = swarm.LegDone
	a.Drop = swarm.LegDescend
	a.Episode.PerfectGrip = true
	a.Attach(a.Base.WithPayload(flight.Payload{Mass: 0.4, Size: 0.2}, src))
	a.State.Pos = r3.Add(drop, r3.Vec{X: 0.1, Z: 0.1})

	eff := m.Step(a, g)
	if !eff.Delivered || !eff.Detach || !eff.Respawn || !eff.PerfectDeliv {
		t.Fatalf("expected delivery effects, got %+v", eff)
	}
	if got, want := eff.Reward, m.Config().DeliverReward; got != want {
		t.Fatalf("delivery reward = %v, want %v", got, want)
	}
	m.Apply(a, eff, g, src)
	if a.Gripping || a.Loaded || a.Params != a.Base {
		t.Fatalf("payload not released: gripping=%v loaded=%v", a.Gripping, a.Loaded)
	}
	if a.Pickup != swarm.LegApproach || a.Drop != swarm.LegApproach {
		t.Fatalf("phases not reset: %v %v", a.Pickup, a.Drop)
	}
	if a.Episode.Deliveries != 1 || a.Episode.PerfectDeliv != 1 || !a.Episode.PerfectNow {
		t.Fatalf("delivery counters: %+v", a.Episode)
	}
	if a.Cargo.DropPos == drop {
		t.Fatalf("drop zone not re-randomised")
	}
	if !a.Flags().Delivered {
		t.Fatalf("delivered flag not raised on the delivery tick")
	}

	m.Apply(a, m.Step(a, g), g, src)
	if a.Flags().Delivered {
		t.Fatalf("delivered flag still set on the tick after delivery")
	}
}

func TestDropArrival_GrantsIntermediateReward(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	g := curriculum.Gates{Grip: 5, Payload: 0.5}
	a := testAgent()
	drop := r3.Vec{X: 5, Y: 5, Z: -8.5}
	a.Cargo = swarm.Cargo{DropPos: drop}
	a.Gripping = true
	a.Pickup = swarm.LegDone
	a.Drop = swarm.LegApproach
	a.State.Pos = r3.Add(drop, r3.Vec{X: 1, Z: 1})

	eff := m.Step(a, g)
	if a.Drop != swarm.LegHover {
		t.Fatalf("drop state = %v, want hover", a.Drop)
	}
	if got, want := eff.Reward, DefaultTolerances().DropArriveBonus; got != want {
		t.Fatalf("arrival reward = %v, want %v", got, want)
	}
}

func TestResetCargo_StaysInsideMargins(t *testing.T) {
	b := testBounds()
	m := NewMachine(DefaultConfig(), b)
	src := rng.New(2024)
	lim := b.Spawn()
	l := DefaultLayout()
	for i := 0; i < 10000; i++ {
		a := testAgent()
		a.Base = flight.NewParams(rng.Uniform(src, 0.3, 1), 0.25, src)
		m.ResetCargo(a, rng.Uniform(src, 0, 1), src)
		for _, p := range []r3.Vec{a.Cargo.BoxPos, a.Cargo.DropPos, a.State.Pos} {
			if math.Abs(p.X) > lim.X || math.Abs(p.Y) > lim.Y || math.Abs(p.Z) > lim.Z {
				t.Fatalf("trial %d: %+v outside margins %+v", i, p, lim)
			}
		}
		for _, p := range []r3.Vec{a.Cargo.BoxPos, a.Cargo.DropPos} {
			if math.Abs(p.X) > lim.X-l.EdgeMargin || math.Abs(p.Y) > lim.Y-l.EdgeMargin {
				t.Fatalf("trial %d: %+v inside edge margin", i, p)
			}
		}
		if d := math.Hypot(a.Cargo.DropPos.X-a.Cargo.BoxPos.X, a.Cargo.DropPos.Y-a.Cargo.BoxPos.Y); d < l.MinSeparation {
			t.Fatalf("trial %d: box and drop overlap (%v)", i, d)
		}
		if a.Hidden.Pos.Z < a.Target.Pos.Z {
			t.Fatalf("trial %d: hidden below target", i)
		}
	}
}

func TestStep_PhaseInvariantUnderRandomMotion(t *testing.T) {
	m := NewMachine(DefaultConfig(), testBounds())
	src := rng.New(77)
	sched := curriculum.NewScheduler(curriculum.Config{
		Grip:         curriculum.GateConfig{Min: 1, Max: 20, Rate: 1, Direction: curriculum.Decay},
		Payload:      curriculum.GateConfig{Min: 0, Max: 1, Rate: 1, Direction: curriculum.Growth},
		HorizonSteps: 2000,
	})
	a := testAgent()
	m.ResetCargo(a, 0, src)
	for tick := 0; tick < 5000; tick++ {
		sched.Advance()
		g := sched.Gates()
		anchor := a.Cargo.BoxPos
		if a.Gripping {
			anchor = a.Cargo.DropPos
		}
		a.State.Pos = r3.Add(anchor, r3.Vec{X: rng.Uniform(src, -1, 1), Y: rng.Uniform(src, -1, 1), Z: rng.Uniform(src, 0, 1.5)})
		a.State.Vel = r3.Vec{X: rng.Uniform(src, -0.3, 0.3), Y: rng.Uniform(src, -0.3, 0.3), Z: rng.Uniform(src, -0.5, 0.1)}
		m.Advance(a)
		m.Apply(a, m.Step(a, g), g, src)

		f := a.Flags()
		if f.HoveringPickup && f.DescendingPickup {
			t.Fatalf("tick %d: hovering and descending pickup", tick)
		}
		if f.HoveringDrop && f.DescendingDrop {
			t.Fatalf("tick %d: hovering and descending drop", tick)
		}
		if f.Gripping && (f.ApproachingPickup || f.HoveringPickup || f.DescendingPickup) {
			t.Fatalf("tick %d: gripping with pickup flag: %+v", tick, f)
		}
		if a.Hidden.Pos.Z < a.Target.Pos.Z-1e-12 {
			t.Fatalf("tick %d: hidden below target", tick)
		}
	}
	if a.Episode.Grips == 0 {
		t.Fatalf("random motion never gripped; scenario does not exercise drop leg")
	}
}
