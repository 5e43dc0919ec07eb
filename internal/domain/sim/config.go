// Package sim runs one batch of drones: it owns the agents, the random
// source and the curriculum, and advances all of them one tick at a time.
package sim

import (
	"errors"
	"fmt"

	"droneswarm/internal/domain/curriculum"
	"droneswarm/internal/domain/pickplace"
	"droneswarm/internal/domain/reward"
	"droneswarm/internal/domain/task"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

type Config struct {
	NumAgents     int
	Seed          uint64
	Horizon       int
	DT            float64
	HalfExtent    r3.Vec
	Margin        float64
	TargetSpeed   float64
	MaxRings      int
	RingRadius    float64
	Tasks         []task.ID
	PickPlaceBias float64

	DroneSizeMin  float64
	DroneSizeMax  float64
	Randomisation float64

	OOBPenalty     float64
	FloorClearance float64
	GripClearance  float64

	Reward     reward.Config
	Curriculum curriculum.Config
	PickPlace  pickplace.Config
}

func DefaultConfig() Config {
	return Config{
		NumAgents:     64,
		Seed:          1,
		Horizon:       1024,
		DT:            0.05,
		HalfExtent:    r3.Vec{X: 30, Y: 30, Z: 10},
		Margin:        1,
		TargetSpeed:   0.05,
		MaxRings:      5,
		RingRadius:    2,
		Tasks:         []task.ID{task.PickPlace},
		PickPlaceBias: 0.75,

		DroneSizeMin:  0.3,
		DroneSizeMax:  1.0,
		Randomisation: 0.25,

		OOBPenalty:     1,
		FloorClearance: 0.2,
		GripClearance:  0.1,

		Reward:     reward.DefaultConfig(),
		Curriculum: curriculum.DefaultConfig(),
		PickPlace:  pickplace.DefaultConfig(),
	}
}

// withDefaults fills zero-valued scalars from DefaultConfig. Nested configs
// are taken whole when left at their zero value.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NumAgents == 0 {
		c.NumAgents = d.NumAgents
	}
	if c.Horizon == 0 {
		c.Horizon = d.Horizon
	}
	if c.DT == 0 {
		c.DT = d.DT
	}
	if c.HalfExtent == (r3.Vec{}) {
		c.HalfExtent = d.HalfExtent
	}
	if c.Margin == 0 {
		c.Margin = d.Margin
	}
	if c.TargetSpeed == 0 {
		c.TargetSpeed = d.TargetSpeed
	}
	if c.MaxRings == 0 {
		c.MaxRings = d.MaxRings
	}
	if c.RingRadius == 0 {
		c.RingRadius = d.RingRadius
	}
	if len(c.Tasks) == 0 {
		c.Tasks = d.Tasks
	}
	if c.DroneSizeMin == 0 && c.DroneSizeMax == 0 {
		c.DroneSizeMin, c.DroneSizeMax = d.DroneSizeMin, d.DroneSizeMax
	}
	if c.OOBPenalty == 0 {
		c.OOBPenalty = d.OOBPenalty
	}
	if c.FloorClearance == 0 {
		c.FloorClearance = d.FloorClearance
	}
	if c.GripClearance == 0 {
		c.GripClearance = d.GripClearance
	}
	if c.Reward == (reward.Config{}) {
		c.Reward = d.Reward
	}
	if c.Curriculum == (curriculum.Config{}) {
		c.Curriculum = d.Curriculum
	}
	if c.Curriculum.HorizonSteps == 0 {
		c.Curriculum.HorizonSteps = d.Curriculum.HorizonSteps
	}
	if c.PickPlace == (pickplace.Config{}) {
		c.PickPlace = d.PickPlace
	}
	if c.PickPlace.DT == 0 {
		c.PickPlace.DT = c.DT
	}
	return c
}

func (c Config) validate() error {
	if c.NumAgents < 0 {
		return fmt.Errorf("%w: num agents must be positive", ErrInvalidConfig)
	}
	if c.Horizon < 2 {
		return fmt.Errorf("%w: horizon must be at least 2", ErrInvalidConfig)
	}
	if c.DT < 0 {
		return fmt.Errorf("%w: dt must be positive", ErrInvalidConfig)
	}
	if c.HalfExtent.X <= c.Margin || c.HalfExtent.Y <= c.Margin || c.HalfExtent.Z <= c.Margin {
		return fmt.Errorf("%w: half extents must exceed the margin", ErrInvalidConfig)
	}
	if c.Curriculum.HorizonSteps < 0 {
		return fmt.Errorf("%w: curriculum horizon must be positive", ErrInvalidConfig)
	}
	if c.DroneSizeMin <= 0 || c.DroneSizeMax < c.DroneSizeMin {
		return fmt.Errorf("%w: drone size range [%v, %v]", ErrInvalidConfig, c.DroneSizeMin, c.DroneSizeMax)
	}
	for _, id := range c.Tasks {
		if !task.Valid(id) {
			return fmt.Errorf("%w: unknown task %q", ErrInvalidConfig, id)
		}
	}
	return nil
}
