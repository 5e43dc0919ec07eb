// Package reward computes the bounded, telescoping per-tick reward.
package reward

import (
	"math"

	"droneswarm/internal/domain/swarm"

	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-8

type Config struct {
	MinRadius   float64
	MaxRadius   float64
	RadiusDecay float64
	PosConst    float64
	PosPenalty  float64

	WPosition  float64
	WVelocity  float64
	WStability float64
	WApproach  float64
	WHover     float64
	WCollision float64
	WBoundary  float64

	HoverBonus      float64
	HoverRadiusFrac float64
	HoverSpeed      float64

	CollisionRadius  float64
	CollisionPenalty float64

	// horizontal fraction of the half extent where the boundary term starts
	// and where it reaches full strength
	BoundaryStart float64
	BoundaryFull  float64
}

func DefaultConfig() Config {
	return Config{
		MinRadius:        2.0,
		MaxRadius:        75.0,
		RadiusDecay:      0.03,
		PosConst:         0.2,
		PosPenalty:       0.2,
		WPosition:        1.0,
		WVelocity:        0.004,
		WStability:       1.8,
		WApproach:        1.7,
		WHover:           1.6,
		WCollision:       1.0,
		WBoundary:        0,
		HoverBonus:       0.2,
		HoverRadiusFrac:  0.2,
		HoverSpeed:       0.2,
		CollisionRadius:  1.0,
		CollisionPenalty: 1.0,
		BoundaryStart:    0.5,
		BoundaryFull:     0.8,
	}
}

// Context is what a reward call may read beyond the agent itself.
type Context struct {
	Tick       int
	Target     swarm.Target
	Neighbor   *swarm.Agent
	MultiAgent bool
	Bounds     swarm.Bounds
}

type Terms struct {
	Position  float64
	Velocity  float64
	Stability float64
	Approach  float64
	Hover     float64
	Collision float64
	Boundary  float64
	Total     float64
	Collided  bool
}

type Model struct {
	cfg Config
}

func NewModel(cfg Config) Model {
	return Model{cfg: cfg}
}

func (m Model) Config() Config { return m.cfg }

// Radius is the in-episode reward radius: it shrinks linearly from MaxRadius
// to MinRadius as the episode tick grows.
func (m Model) Radius(tick int) float64 {
	return clamp(float64(tick)*-m.cfg.RadiusDecay+m.cfg.MaxRadius, m.cfg.MinRadius, m.cfg.MaxRadius)
}

// Evaluate returns the absolute reward terms for a without touching it.
func (m Model) Evaluate(a *swarm.Agent, c Context) Terms {
	st := &a.State
	tgt := c.Target

	posErr := r3.Sub(st.Pos, tgt.Pos)
	dist := r3.Norm(posErr) + epsilon
	velErr := r3.Sub(st.Vel, tgt.Vel)
	velErrMag := r3.Norm(velErr)
	radius := math.Max(m.Radius(c.Tick), epsilon)

	var t Terms
	t.Position = clamp(math.Exp(-dist/(radius*m.cfg.PosConst+epsilon)), -m.cfg.PosPenalty, 1)

	distanceFactor := math.Min(1, math.Max(0.1, 1-(dist-5)/20))
	base := clamp(2*math.Exp(-(velErrMag-0.05)*10)-1, -1, 1)
	t.Velocity = base * distanceFactor

	maxOmega := math.Max(a.Params.MaxOmega, epsilon)
	t.Stability = -r3.Norm(st.Omega) / maxOmega

	toTarget := r3.Scale(-1/dist, posErr)
	maxVel := math.Max(a.Params.MaxVel, epsilon)
	weight := clamp(dist/radius, 0, 1)
	t.Approach = weight * clamp(r3.Dot(toTarget, st.Vel)/maxVel, -0.5, 0.5)

	if dist < radius*m.cfg.HoverRadiusFrac && velErrMag < m.cfg.HoverSpeed && st.Vel.Z < 0 {
		t.Hover = m.cfg.HoverBonus
	}

	if c.MultiAgent && c.Neighbor != nil {
		if r3.Norm(r3.Sub(c.Neighbor.State.Pos, st.Pos)) < m.cfg.CollisionRadius {
			t.Collision = -m.cfg.CollisionPenalty
			t.Collided = true
		}
	}

	t.Boundary = m.boundary(st.Pos, c.Bounds)

	t.Total = clamp(
		m.cfg.WPosition*t.Position+
			m.cfg.WVelocity*t.Velocity+
			m.cfg.WStability*t.Stability+
			m.cfg.WApproach*t.Approach+
			m.cfg.WHover*t.Hover+
			m.cfg.WCollision*t.Collision+
			m.cfg.WBoundary*t.Boundary,
		-1, 1)
	return t
}

func (m Model) boundary(p r3.Vec, b swarm.Bounds) float64 {
	if b.HalfExtent.X <= 0 || b.HalfExtent.Y <= 0 {
		return 0
	}
	r := math.Max(math.Abs(p.X)/b.HalfExtent.X, math.Abs(p.Y)/b.HalfExtent.Y)
	span := m.cfg.BoundaryFull - m.cfg.BoundaryStart
	if r <= m.cfg.BoundaryStart {
		return 0
	}
	if span <= 0 {
		return -1
	}
	return -clamp((r-m.cfg.BoundaryStart)/span, 0, 1)
}

// Compute is the regular per-tick call: it returns the change in absolute
// reward since the previous call, stores the new absolute value and counts
// collisions.
func (m Model) Compute(a *swarm.Agent, c Context) (float64, Terms) {
	t := m.Evaluate(a, c)
	delta := t.Total - a.Reward.LastTotal
	m.store(a, t)
	if t.Collided {
		a.Episode.Collisions++
	}
	return delta, t
}

// Rebaseline stores the absolute reward against the current target without
// producing a delta, so an instantaneous target jump does not spike the next
// regular call.
func (m Model) Rebaseline(a *swarm.Agent, c Context) Terms {
	t := m.Evaluate(a, c)
	m.store(a, t)
	return t
}

func (m Model) store(a *swarm.Agent, t Terms) {
	a.Reward.LastTotal = t.Total
	a.Reward.LastPosition = t.Position
	a.Reward.LastCollision = t.Collision
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
