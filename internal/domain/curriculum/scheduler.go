// Package curriculum anneals the batch-wide difficulty gates over training.
package curriculum

import "math"

type Direction int8

const (
	Decay Direction = iota
	Growth
)

// annealTolerance is how close a gate must be to its hardest bound to count as
// fully annealed.
const annealTolerance = 0.01

// DefaultHorizonSteps is the annealing horizon used when none is configured.
const DefaultHorizonSteps = 200000

type GateConfig struct {
	Min       float64
	Max       float64
	Rate      float64
	Direction Direction
}

// EffectiveRate caps the configured rate so the gate cannot cross its range in
// fewer than horizonSteps ticks. A non-positive horizon falls back to
// DefaultHorizonSteps.
func (g GateConfig) EffectiveRate(horizonSteps float64) float64 {
	if horizonSteps <= 0 {
		horizonSteps = DefaultHorizonSteps
	}
	return math.Min(math.Abs(g.Rate), (g.Max-g.Min)/horizonSteps)
}

// At evaluates the gate at a global tick.
func (g GateConfig) At(tick uint64, horizonSteps float64) float64 {
	rate := g.EffectiveRate(horizonSteps)
	t := float64(tick)
	if g.Direction == Growth {
		return clamp(t*rate+g.Min, g.Min, g.Max)
	}
	return clamp(t*-rate+g.Max, g.Min, g.Max)
}

func (g GateConfig) hardest() float64 {
	if g.Direction == Growth {
		return g.Max
	}
	return g.Min
}

type Config struct {
	Grip         GateConfig
	Payload      GateConfig
	HorizonSteps float64
}

func DefaultConfig() Config {
	return Config{
		Grip:         GateConfig{Min: 1.0, Max: 20.0, Rate: 0.07, Direction: Decay},
		Payload:      GateConfig{Min: 0.001, Max: 1.0, Rate: 0.00005, Direction: Growth},
		HorizonSteps: DefaultHorizonSteps,
	}
}

// Gates is the read-only view handed to the rest of the tick.
type Gates struct {
	Grip     float64
	Payload  float64
	Annealed bool
}

// GripFloor is the grip gate floored at 1 before tolerance fractions apply.
func (g Gates) GripFloor() float64 {
	return math.Max(g.Grip, 1)
}

// Scheduler owns the global tick. A batch owns one; two batches only share
// a schedule when handed the same pointer.
type Scheduler struct {
	cfg   Config
	tick  uint64
	gates Gates
}

func NewScheduler(cfg Config) *Scheduler {
	s := &Scheduler{cfg: cfg}
	s.refresh()
	return s
}

// Advance moves the global tick forward by one and recomputes both gates.
func (s *Scheduler) Advance() {
	s.tick++
	s.refresh()
}

func (s *Scheduler) refresh() {
	grip := s.cfg.Grip.At(s.tick, s.cfg.HorizonSteps)
	payload := s.cfg.Payload.At(s.tick, s.cfg.HorizonSteps)
	s.gates = Gates{
		Grip:     grip,
		Payload:  payload,
		Annealed: math.Abs(grip-s.cfg.Grip.hardest()) <= annealTolerance && math.Abs(payload-s.cfg.Payload.hardest()) <= annealTolerance,
	}
}

func (s *Scheduler) Tick() uint64 { return s.tick }

func (s *Scheduler) Gates() Gates { return s.gates }

func (s *Scheduler) Config() Config { return s.cfg }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
