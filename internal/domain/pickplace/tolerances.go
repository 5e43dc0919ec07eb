// Package pickplace drives agents through pick-and-place cycles: approach,
// hover and descend onto the box, grip, then the same three phases over the
// drop zone before release.
package pickplace

// Tolerances are the gate constants of both legs. Fractions marked "scaled"
// multiply the grip gate k (or its floor max(k, 1)); the rest are absolute.
type Tolerances struct {
	// pickup arrival: near the hidden point, or laterally aligned above the box
	HoverDist         float64
	HoverSpeed        float64
	FallbackXYFrac    float64 // scaled by floor
	FallbackClearance float64
	FallbackSpeed     float64

	PickupAlignFrac float64 // scaled by floor

	GripXYFrac       float64 // scaled by k
	GripZFrac        float64 // scaled by k
	GripSpeedFrac    float64 // scaled by k
	GripSpeedFloor   float64
	GripDescentFrac  float64 // scaled by k
	GripDescentFloor float64
	NearMissHidden   float64
	NearMissXYFrac   float64 // scaled by floor
	NearMissZMin     float64
	NearMissZMax     float64
	NearMissSpeed    float64

	DropXYFrac      float64 // scaled by k
	DropClearance   float64
	DropSpeed       float64
	DropAlignFrac   float64 // scaled by floor
	DeliverXYFrac   float64 // scaled by floor
	DeliverZFrac    float64 // scaled by floor
	DropArriveBonus float64

	PickupHiddenOffset float64
	DropHiddenOffset   float64
	HoldOffset         float64
	DescentRate        float64
	CarryOffset        float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		HoverDist:         2.4,
		HoverSpeed:        1.6,
		FallbackXYFrac:    0.75,
		FallbackClearance: 0.3,
		FallbackSpeed:     2.5,

		PickupAlignFrac: 0.40,

		GripXYFrac:       0.40,
		GripZFrac:        0.40,
		GripSpeedFrac:    0.40,
		GripSpeedFloor:   0.8,
		GripDescentFrac:  0.08,
		GripDescentFloor: 0.2,
		NearMissHidden:   0.4,
		NearMissXYFrac:   0.40,
		NearMissZMin:     0.05,
		NearMissZMax:     0.6,
		NearMissSpeed:    1.0,

		DropXYFrac:      1.25,
		DropClearance:   0.3,
		DropSpeed:       2.5,
		DropAlignFrac:   0.55,
		DeliverXYFrac:   0.35,
		DeliverZFrac:    0.30,
		DropArriveBonus: 0.25,

		PickupHiddenOffset: 0.8,
		DropHiddenOffset:   0.6,
		HoldOffset:         0.6,
		DescentRate:        0.06,
		CarryOffset:        0.5,
	}
}

// Layout controls where boxes, drop zones and respawned agents are placed.
type Layout struct {
	EdgeMargin     float64
	FloorClearance float64
	MinSeparation  float64
	SpawnRadiusMin float64
	SpawnRadiusMax float64
	SpawnHeightMin float64
	SpawnHeightMax float64
	SpawnXYInset   float64
	SpawnZInset    float64
	BoxDensity     float64
}

func DefaultLayout() Layout {
	return Layout{
		EdgeMargin:     6,
		FloorClearance: 1.5,
		MinSeparation:  2,
		SpawnRadiusMin: 0.5,
		SpawnRadiusMax: 1.2,
		SpawnHeightMin: 2,
		SpawnHeightMax: 3,
		SpawnXYInset:   2,
		SpawnZInset:    0.5,
		BoxDensity:     5,
	}
}
