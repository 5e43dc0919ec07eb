package reward

import (
	"math"
	"testing"

	"droneswarm/internal/domain/flight"
	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

func testAgent(pos r3.Vec) swarm.Agent {
	p := flight.NewParams(0.6, 0, rng.New(1))
	return swarm.Agent{State: flight.Level(pos), Base: p, Params: p}
}

func testBounds() swarm.Bounds {
	return swarm.Bounds{HalfExtent: r3.Vec{X: 30, Y: 30, Z: 10}, Margin: 1}
}

func TestEvaluate_TotalAlwaysInUnitRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WBoundary = 3
	cfg.WApproach = 10
	m := NewModel(cfg)
	src := rng.New(99)
	u := func(lo, hi float64) float64 { return rng.Uniform(src, lo, hi) }
	for i := 0; i < 20000; i++ {
		a := testAgent(r3.Vec{X: u(-40, 40), Y: u(-40, 40), Z: u(-15, 15)})
		a.State.Vel = r3.Vec{X: u(-60, 60), Y: u(-60, 60), Z: u(-60, 60)}
		a.State.Omega = r3.Vec{X: u(-50, 50), Y: u(-50, 50), Z: u(-50, 50)}
		other := testAgent(r3.Add(a.State.Pos, r3.Vec{X: u(-2, 2)}))
		c := Context{
			Tick:       int(u(0, 3000)),
			Target:     swarm.Target{Pos: r3.Vec{X: u(-30, 30), Y: u(-30, 30), Z: u(-10, 10)}, Vel: r3.Vec{Z: u(-1, 1)}},
			Neighbor:   &other,
			MultiAgent: true,
			Bounds:     testBounds(),
		}
		tm := m.Evaluate(&a, c)
		if tm.Total < -1 || tm.Total > 1 || math.IsNaN(tm.Total) {
			t.Fatalf("trial %d: total %v outside [-1, 1]", i, tm.Total)
		}
	}
}

func TestEvaluate_ZeroDistanceIsFinite(t *testing.T) {
	m := NewModel(DefaultConfig())
	a := testAgent(r3.Vec{X: 1, Y: 2, Z: 3})
	tm := m.Evaluate(&a, Context{Target: swarm.Target{Pos: a.State.Pos}, Bounds: testBounds()})
	if math.IsNaN(tm.Total) || math.IsNaN(tm.Approach) {
		t.Fatalf("non-finite terms at zero distance: %+v", tm)
	}
	if tm.Position <= 0.99 {
		t.Fatalf("position term at target = %v, want ~1", tm.Position)
	}
}

func TestCompute_Telescopes(t *testing.T) {
	m := NewModel(DefaultConfig())
	a := testAgent(r3.Vec{X: 4, Y: -3, Z: 2})
	c := Context{Target: swarm.Target{Pos: r3.Vec{}}, Bounds: testBounds()}

	first := m.Rebaseline(&a, c).Total
	sum := 0.0
	src := rng.New(5)
	for tick := 1; tick <= 200; tick++ {
		a.State.Pos = r3.Add(a.State.Pos, r3.Vec{X: rng.Uniform(src, -0.3, 0.3), Y: rng.Uniform(src, -0.3, 0.3)})
		a.State.Vel = r3.Vec{Z: rng.Uniform(src, -1, 1)}
		c.Tick = tick
		d, _ := m.Compute(&a, c)
		sum += d
	}
	last := a.Reward.LastTotal
	if math.Abs(sum-(last-first)) > 1e-9 {
		t.Fatalf("sum of deltas %v != last-first %v", sum, last-first)
	}
}

func TestCompute_CollisionOnlyWithNeighbours(t *testing.T) {
	m := NewModel(DefaultConfig())
	c := Context{Target: swarm.Target{Pos: r3.Vec{}}, Bounds: testBounds()}

	a := testAgent(r3.Vec{})
	b := testAgent(r3.Vec{X: 0.5})
	c.Neighbor = &b
	c.MultiAgent = true
	_, tm := m.Compute(&a, c)
	if tm.Collision >= 0 {
		t.Fatalf("collision term = %v, want negative", tm.Collision)
	}
	if got, want := a.Episode.Collisions, 1; got != want {
		t.Fatalf("collisions = %d, want %d", got, want)
	}
	if got := a.Reward.LastCollision; got != tm.Collision {
		t.Fatalf("last collision feedback = %v, want %v", got, tm.Collision)
	}

	solo := testAgent(r3.Vec{})
	c.Neighbor = nil
	c.MultiAgent = false
	_, tm = m.Compute(&solo, c)
	if tm.Collision != 0 || solo.Episode.Collisions != 0 {
		t.Fatalf("single agent collided: term=%v count=%d", tm.Collision, solo.Episode.Collisions)
	}
}

func TestRebaseline_DoesNotCountCollisions(t *testing.T) {
	m := NewModel(DefaultConfig())
	a := testAgent(r3.Vec{})
	b := testAgent(r3.Vec{Y: 0.2})
	m.Rebaseline(&a, Context{Neighbor: &b, MultiAgent: true, Bounds: testBounds()})
	if a.Episode.Collisions != 0 {
		t.Fatalf("rebaseline counted a collision")
	}
}

func TestRadius_DecaysToMinimum(t *testing.T) {
	m := NewModel(DefaultConfig())
	if got := m.Radius(0); got != 75 {
		t.Fatalf("Radius(0) = %v", got)
	}
	if got := m.Radius(1000); math.Abs(got-45) > 1e-9 {
		t.Fatalf("Radius(1000) = %v, want 45", got)
	}
	if got := m.Radius(1 << 20); got != 2 {
		t.Fatalf("Radius(large) = %v, want 2", got)
	}
}

func TestEvaluate_HoverBonusNeedsDescent(t *testing.T) {
	m := NewModel(DefaultConfig())
	a := testAgent(r3.Vec{Z: 0.5})
	c := Context{Target: swarm.Target{Pos: r3.Vec{}}, Bounds: testBounds()}

	a.State.Vel = r3.Vec{Z: -0.1}
	if got := m.Evaluate(&a, c).Hover; got != 0.2 {
		t.Fatalf("hover while descending = %v, want 0.2", got)
	}
	a.State.Vel = r3.Vec{Z: 0.1}
	if got := m.Evaluate(&a, c).Hover; got != 0 {
		t.Fatalf("hover while climbing = %v, want 0", got)
	}
}

func TestBoundary_RampsToFullStrength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WBoundary = 1
	m := NewModel(cfg)
	b := testBounds()
	cases := []struct {
		x    float64
		want float64
	}{
		{10, 0},
		{15, 0},
		{19.5, -0.5},
		{24, -1},
		{29, -1},
	}
	for _, tc := range cases {
		if got := m.boundary(r3.Vec{X: tc.x}, b); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("boundary(x=%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}
