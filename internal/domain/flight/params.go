package flight

import (
	"math"

	"droneswarm/internal/domain/rng"
)

const (
	Gravity = 9.81

	DefaultMaxRPM   = 1500.0
	DefaultMaxVel   = 50.0
	DefaultMaxOmega = 50.0

	// fraction of MaxRPM at which the unloaded airframe hovers
	hoverRPMFraction = 0.55
)

// Params is the dynamic parameter set consumed by Step. Payload handling never
// mutates a base set in place: WithPayload returns a derived copy.
type Params struct {
	Mass     float64
	Ixx      float64
	Iyy      float64
	Izz      float64
	ArmLen   float64
	KThrust  float64
	KYaw     float64
	KDrag    float64
	BDrag    float64
	KMotor   float64
	Gravity  float64
	MaxRPM   float64
	MaxVel   float64
	MaxOmega float64
}

// NewParams builds an airframe of the given scale with multiplicative domain
// randomisation of +/-randomisation on every physical quantity.
func NewParams(size, randomisation float64, src rng.Source) Params {
	jitter := func(v float64) float64 {
		return v * (1 + rng.Uniform(src, -randomisation, randomisation))
	}

	p := Params{
		ArmLen:   jitter(0.12 * size),
		Mass:     jitter(0.6 + 0.9*size),
		KYaw:     jitter(0.02),
		KDrag:    jitter(0.1),
		BDrag:    jitter(0.005),
		KMotor:   jitter(0.05),
		Gravity:  Gravity,
		MaxRPM:   DefaultMaxRPM,
		MaxVel:   DefaultMaxVel,
		MaxOmega: DefaultMaxOmega,
	}
	p.Ixx = jitter(0.5*p.Mass*p.ArmLen*p.ArmLen + 1e-3)
	p.Iyy = jitter(0.5*p.Mass*p.ArmLen*p.ArmLen + 1e-3)
	p.Izz = jitter(p.Mass*p.ArmLen*p.ArmLen + 2e-3)
	hover := hoverRPMFraction * p.MaxRPM
	p.KThrust = p.Mass * p.Gravity / (4 * hover * hover)
	return p
}

// HoverCommand is the normalised rotor command that balances gravity for p.
func (p Params) HoverCommand() float64 {
	if p.KThrust <= 0 || p.MaxRPM <= 0 {
		return 0
	}
	rpm := math.Sqrt(p.Mass * p.Gravity / (4 * p.KThrust))
	return 2*rpm/p.MaxRPM - 1
}
