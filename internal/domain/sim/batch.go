package sim

import (
	"math"
	"math/rand/v2"

	"droneswarm/internal/domain/curriculum"
	"droneswarm/internal/domain/episode"
	"droneswarm/internal/domain/flight"
	"droneswarm/internal/domain/pickplace"
	"droneswarm/internal/domain/reward"
	"droneswarm/internal/domain/rng"
	"droneswarm/internal/domain/swarm"
	"droneswarm/internal/domain/task"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	ActionSize = 4

	raceSpawnAttempts = 1000
)

// Batch is one environment instance. It is not safe for concurrent use;
// callers serialise access per batch.
type Batch struct {
	cfg     Config
	rand    *rand.Rand
	sched   *curriculum.Scheduler
	model   reward.Model
	machine pickplace.Machine
	limits  episode.Limits
	bounds  swarm.Bounds

	agents []swarm.Agent
	rings  []task.Ring
	task   task.ID
	tick   int
	log    episode.Log

	obs       []float64
	rewards   []float64
	terminals []bool
	events    []episode.Event
}

// New builds a batch and performs the first full reset. A nil scheduler gives
// the batch its own; passing one shared pointer aliases the curriculum.
func New(cfg Config, sched *curriculum.Scheduler) (*Batch, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		sched = curriculum.NewScheduler(cfg.Curriculum)
	}

	bounds := swarm.Bounds{HalfExtent: cfg.HalfExtent, Margin: cfg.Margin}
	limits := episode.DefaultLimits(bounds)
	limits.Horizon = cfg.Horizon
	limits.FloorClearance = cfg.FloorClearance
	limits.GripClearance = cfg.GripClearance

	n := cfg.NumAgents
	b := &Batch{
		cfg:       cfg,
		rand:      rng.New(cfg.Seed),
		sched:     sched,
		model:     reward.NewModel(cfg.Reward),
		machine:   pickplace.NewMachine(cfg.PickPlace, bounds),
		limits:    limits,
		bounds:    bounds,
		agents:    make([]swarm.Agent, n),
		obs:       make([]float64, n*ObsSize),
		rewards:   make([]float64, n),
		terminals: make([]bool, n),
		events:    make([]episode.Event, 0, n),
	}
	b.reset()
	return b, nil
}

// Reset is the full batch reset: a new task draw, fresh geometry for every
// agent and the episode tick back at zero. The curriculum is untouched.
func (b *Batch) Reset() {
	for i := range b.rewards {
		b.rewards[i] = 0
		b.terminals[i] = false
	}
	b.events = b.events[:0]
	b.reset()
}

func (b *Batch) reset() {
	b.tick = 0
	b.task = task.Select(b.rand, b.cfg.Tasks, b.cfg.PickPlaceBias)
	b.rings = b.rings[:0]
	if b.task == task.Race {
		b.rings = task.ResetRings(b.rand, b.bounds, b.cfg.MaxRings, b.cfg.RingRadius)
	}
	for i := range b.agents {
		b.resetAgent(i)
	}
	b.observeAll()
}

// Step advances every agent by one tick. actions holds ActionSize commands per
// agent; missing, non-finite or out-of-range entries are sanitised.
func (b *Batch) Step(actions []float64) {
	b.events = b.events[:0]
	b.tick++
	b.sched.Advance()
	g := b.sched.Gates()

	for i := range b.agents {
		a := &b.agents[i]
		b.terminals[i] = false

		a.PrevPos = a.State.Pos
		flight.Step(a.Params, &a.State, commands(actions, i), b.cfg.DT)
		outside := b.limits.Outside(a)

		var r float64
		switch b.task {
		case task.PickPlace:
			r = b.stepPickPlace(i, g)
		case task.Race:
			r = b.stepRace(i)
		default:
			a.Target = task.MoveTarget(a.Target, b.bounds)
			a.Hidden = a.Target
			r, _ = b.model.Compute(a, b.rewardContext(i))
		}
		a.Episode.Length++
		a.Episode.Score += a.Reward.LastTotal

		// the floor check sees the pose and grip state left by the phase logic
		if outside || b.limits.BelowFloor(a) {
			r -= b.cfg.OOBPenalty
			a.Episode.Return += r
			a.Episode.OutOfBounds = true
			b.terminals[i] = true
			b.finish(i, episode.CauseOutOfBounds)
			b.resetAgent(i)
		} else {
			a.Episode.Return += r
		}
		b.rewards[i] = r

		if b.task == task.PickPlace {
			b.log.Occupy(a.Flags())
		}
	}

	if b.limits.HorizonReached(b.tick) {
		for i := range b.agents {
			if b.terminals[i] {
				continue
			}
			b.terminals[i] = true
			b.finish(i, episode.CauseHorizon)
		}
		b.reset()
		return
	}
	b.observeAll()
}

func (b *Batch) stepPickPlace(i int, g curriculum.Gates) float64 {
	a := &b.agents[i]
	b.machine.Advance(a)
	eff := b.machine.Step(a, g)
	b.machine.Apply(a, eff, g, b.rand)
	if eff.Rebaseline {
		b.model.Rebaseline(a, b.rewardContext(i))
	}
	r, _ := b.model.Compute(a, b.rewardContext(i))
	return r + eff.Reward
}

func (b *Batch) stepRace(i int) float64 {
	a := &b.agents[i]
	r, _ := b.model.Compute(a, b.rewardContext(i))
	if len(b.rings) == 0 {
		return r
	}
	passed := task.CheckRing(a.PrevPos, a.State.Pos, b.rings[a.RingIdx%len(b.rings)])
	r += passed
	if passed > 0 {
		a.RingIdx++
		a.Episode.RingsPassed++
		task.Assign(b.taskContext(), task.Race, i)
		b.model.Rebaseline(a, b.rewardContext(i))
	}
	return r
}

func (b *Batch) finish(i int, cause episode.Cause) {
	a := &b.agents[i]
	b.log.Record(a, cause)
	b.events = append(b.events, episode.Event{
		Agent:      i,
		Cause:      cause,
		Task:       string(b.task),
		Return:     a.Episode.Return,
		Score:      a.Episode.Score,
		Length:     a.Episode.Length,
		Collisions: a.Episode.Collisions,
		Grips:      a.Episode.Grips,
		Deliveries: a.Episode.Deliveries,
		Tick:       b.tick,
		GlobalTick: b.sched.Tick(),
	})
}

// resetAgent gives agent i a fresh airframe, pose, target and episode record.
func (b *Batch) resetAgent(i int) {
	size := rng.Uniform(b.rand, b.cfg.DroneSizeMin, b.cfg.DroneSizeMax)
	params := flight.NewParams(size, b.cfg.Randomisation, b.rand)
	spawn := b.sampleSpawn()

	a := &b.agents[i]
	*a = swarm.Agent{
		Index:   i,
		State:   flight.Level(spawn),
		PrevPos: spawn,
		Base:    params,
		Params:  params,
		Size:    size,
	}
	a.ResetPhases()

	switch b.task {
	case task.PickPlace:
		b.machine.ResetCargo(a, b.sched.Gates().Payload, b.rand)
	case task.Race:
		if len(b.rings) > 0 {
			first := b.rings[0]
			for n := 0; n < raceSpawnAttempts && r3.Norm(r3.Sub(a.State.Pos, first.Pos)) < 2*first.Radius; n++ {
				a.State.Pos = b.sampleSpawn()
			}
			a.PrevPos = a.State.Pos
		}
	}
	task.Assign(b.taskContext(), b.task, i)
	b.model.Rebaseline(a, b.rewardContext(i))
}

func (b *Batch) sampleSpawn() r3.Vec {
	lim := b.bounds.Spawn()
	return r3.Vec{
		X: rng.Uniform(b.rand, -lim.X, lim.X),
		Y: rng.Uniform(b.rand, -lim.Y, lim.Y),
		Z: rng.Uniform(b.rand, -lim.Z, lim.Z),
	}
}

func (b *Batch) taskContext() task.Context {
	return task.Context{
		Agents:      b.agents,
		Rings:       b.rings,
		Bounds:      b.bounds,
		Rand:        b.rand,
		TargetSpeed: b.cfg.TargetSpeed,
	}
}

func (b *Batch) rewardContext(i int) reward.Context {
	a := &b.agents[i]
	c := reward.Context{
		Tick:       b.tick,
		Target:     a.EffectiveTarget(b.task == task.PickPlace),
		MultiAgent: len(b.agents) > 1,
		Bounds:     b.bounds,
	}
	if j := swarm.Nearest(b.agents, i); j >= 0 {
		c.Neighbor = &b.agents[j]
	}
	return c
}

// commands extracts agent i's rotor commands, mapping NaN to 0 and clamping
// to [-1, 1].
func commands(actions []float64, i int) [ActionSize]float64 {
	var out [ActionSize]float64
	base := i * ActionSize
	for k := range out {
		if base+k >= len(actions) {
			break
		}
		v := actions[base+k]
		switch {
		case math.IsNaN(v):
			v = 0
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		out[k] = v
	}
	return out
}

func (b *Batch) NumAgents() int { return len(b.agents) }

func (b *Batch) Task() task.ID { return b.task }

// Tick is the episode tick shared by all agents.
func (b *Batch) Tick() int { return b.tick }

func (b *Batch) Gates() curriculum.Gates { return b.sched.Gates() }

func (b *Batch) GlobalTick() uint64 { return b.sched.Tick() }

func (b *Batch) Config() Config { return b.cfg }

// Observations, Rewards and Terminals return the batch's buffers for the last
// tick. They are overwritten by the next Step or Reset.
func (b *Batch) Observations() []float64 { return b.obs }

func (b *Batch) Rewards() []float64 { return b.rewards }

func (b *Batch) Terminals() []bool { return b.terminals }

// Events lists the episodes that ended during the last Step.
func (b *Batch) Events() []episode.Event { return b.events }

func (b *Batch) Log() episode.Log { return b.log }

func (b *Batch) ResetLog() { b.log.Reset() }

// Agent returns a copy of agent i.
func (b *Batch) Agent(i int) swarm.Agent { return b.agents[i] }

func (b *Batch) Rings() []task.Ring { return b.rings }
