package swarm

// LegState is the position of one approach/hover/descend sub-machine.
type LegState uint8

const (
	LegApproach LegState = iota
	LegHover
	LegDescend
	LegDone
)

func (s LegState) String() string {
	switch s {
	case LegApproach:
		return "approach"
	case LegHover:
		return "hover"
	case LegDescend:
		return "descend"
	case LegDone:
		return "done"
	default:
		return "unknown"
	}
}

// PhaseFlags is the boolean view of the two sub-machines, as reported in logs
// and used by the phase invariant checks.
type PhaseFlags struct {
	ApproachingPickup bool
	HoveringPickup    bool
	DescendingPickup  bool
	Gripping          bool
	ApproachingDrop   bool
	HoveringDrop      bool
	DescendingDrop    bool
	Delivered         bool
}

// Flags reports the current phase. Delivered is only raised on the tick the
// delivery lands, since the soft reset starts the next cycle right away.
func (a *Agent) Flags() PhaseFlags {
	f := PhaseFlags{Gripping: a.Gripping, Delivered: a.Episode.Delivered}
	if a.Gripping {
		f.ApproachingDrop = a.Drop == LegApproach
		f.HoveringDrop = a.Drop == LegHover
		f.DescendingDrop = a.Drop == LegDescend
		return f
	}
	f.ApproachingPickup = a.Pickup == LegApproach
	f.HoveringPickup = a.Pickup == LegHover
	f.DescendingPickup = a.Pickup == LegDescend
	return f
}

// ResetPhases puts the agent back at the start of a pick cycle.
func (a *Agent) ResetPhases() {
	a.Gripping = false
	a.Pickup = LegApproach
	a.Drop = LegApproach
	a.Cargo.BoxGripped = false
}
