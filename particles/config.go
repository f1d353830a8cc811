package particles

import (
	"fmt"
	"image/color"
	"strings"
)

// EmissionShape selects where new particles appear relative to the anchor.
type EmissionShape int

const (
	ShapePoint EmissionShape = iota
	ShapeCircle
	ShapeRectangle
)

var shapeNames = map[EmissionShape]string{
	ShapePoint:     "point",
	ShapeCircle:    "circle",
	ShapeRectangle: "rectangle",
}

func (s EmissionShape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("EmissionShape(%d)", int(s))
}

// ParseEmissionShape resolves a shape by name. The empty string is ShapePoint.
func ParseEmissionShape(name string) (EmissionShape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ShapePoint, nil
	}
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return ShapePoint, fmt.Errorf("particles: unknown emission shape %q", name)
}

// VelocityMode selects how a particle's initial velocity is computed.
type VelocityMode int

const (
	// VelocityConstant uses VelocityParam as the velocity.
	VelocityConstant VelocityMode = iota
	// VelocityPointRadial picks a random direction with a magnitude sampled
	// from VelocityParam as a range.
	VelocityPointRadial
	// VelocityRadial pushes away from the anchor; magnitude is the spawn
	// offset length scaled by a sample of VelocityParam as a range.
	VelocityRadial
	// VelocityCustom asks the custom velocity callback.
	VelocityCustom
)

var velocityModeNames = map[VelocityMode]string{
	VelocityConstant:    "constant",
	VelocityPointRadial: "point_radial",
	VelocityRadial:      "radial",
	VelocityCustom:      "custom",
}

func (m VelocityMode) String() string {
	if name, ok := velocityModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("VelocityMode(%d)", int(m))
}

// ParseVelocityMode resolves a velocity mode by name. The empty string is
// VelocityConstant.
func ParseVelocityMode(name string) (VelocityMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return VelocityConstant, nil
	}
	for m, n := range velocityModeNames {
		if n == name {
			return m, nil
		}
	}
	return VelocityConstant, fmt.Errorf("particles: unknown velocity mode %q", name)
}

// Burst fires a sampled number of particles after a sampled delay, then
// re-arms.
type Burst struct {
	Delay Range
	Count Range
}

// minBurstBound replaces non-positive burst bounds.
const minBurstBound = 0.1

// Config is the full set of emitter options.
type Config struct {
	Name string

	Prefab          string
	Pool            bool
	InitialCapacity int
	RunOnStart      bool
	PixelSnap       bool
	FallbackTexture Texture
	BaseColor       color.Color

	Shape           EmissionShape
	EmissionRadius  float64
	EmissionExtents Vector

	EmitOverTime       bool
	ParticlesPerSecond float64

	EmitOverDistance    bool
	DistancePerParticle float64

	BurstOnStart bool
	StartBurst   Range
	BurstDelays  []Range
	BurstCounts  []Range

	Lifetime         Range
	VelocityMode     VelocityMode
	VelocityParam    Vector
	RadialFallback   Vector
	CustomVelocity   func() Vector
	LinearDamp       float64
	DampTargetFactor float64
	Acceleration     Vector

	// ColorOverLifetime overrides BaseColor when set.
	ColorOverLifetime Curve
}

// DefaultConfig returns the emitter defaults.
func DefaultConfig() Config {
	return Config{
		Name:                "particles",
		Pool:                true,
		InitialCapacity:     100,
		RunOnStart:          true,
		BaseColor:           color.White,
		EmissionRadius:      1,
		EmissionExtents:     Vector{X: 1, Y: 1},
		EmitOverTime:        true,
		ParticlesPerSecond:  1,
		DistancePerParticle: 1,
		Lifetime:            Range{Min: 1, Max: 2},
		RadialFallback:      Up,
	}
}

// Bursts pairs BurstDelays with BurstCounts, truncated to the shorter list.
func (c Config) Bursts() []Burst {
	n := min(len(c.BurstDelays), len(c.BurstCounts))
	out := make([]Burst, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Burst{Delay: c.BurstDelays[i], Count: c.BurstCounts[i]})
	}
	return out
}
