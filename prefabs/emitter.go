package prefabs

import (
	"fmt"

	"github.com/milk9111/particles/particles"
)

type GradientStopSpec struct {
	Offset float64   `yaml:"offset"`
	Color  YAMLColor `yaml:"color"`
}

// ParticleEmitterComponentSpec is the YAML form of particles.Config. Unset
// fields keep particles.DefaultConfig values.
type ParticleEmitterComponentSpec struct {
	Prefab          string     `yaml:"prefab"`
	Pool            *bool      `yaml:"pool"`
	InitialCapacity *int       `yaml:"initial_capacity"`
	RunOnStart      *bool      `yaml:"run_on_start"`
	PixelSnap       bool       `yaml:"pixel_snap"`
	FallbackTexture string     `yaml:"fallback_texture"`
	BaseColor       *YAMLColor `yaml:"base_color"`
	SpriteScale     float64    `yaml:"sprite_scale"`
	Shrink          bool       `yaml:"shrink"`

	Shape   string   `yaml:"shape"`
	Radius  *float64 `yaml:"radius"`
	Extents *Pair    `yaml:"extents"`

	EmitOverTime       *bool    `yaml:"emit_over_time"`
	ParticlesPerSecond *float64 `yaml:"particles_per_second"`

	EmitOverDistance    bool     `yaml:"emit_over_distance"`
	DistancePerParticle *float64 `yaml:"distance_per_particle"`

	BurstOnStart bool   `yaml:"burst_on_start"`
	StartBurst   Pair   `yaml:"start_burst"`
	BurstDelays  []Pair `yaml:"burst_delays"`
	BurstCounts  []Pair `yaml:"burst_counts"`

	Lifetime         *Pair   `yaml:"lifetime"`
	VelocityMode     string  `yaml:"velocity_mode"`
	Velocity         Pair    `yaml:"velocity"`
	RadialFallback   *Pair   `yaml:"radial_fallback"`
	VelocityScript   string  `yaml:"velocity_script"`
	LinearDamp       float64 `yaml:"linear_damp"`
	DampTargetFactor float64 `yaml:"damp_target_factor"`
	Acceleration     Pair    `yaml:"acceleration"`

	ColorOverLifetime []GradientStopSpec `yaml:"color_over_lifetime"`

	// Offspring is a prefab built where each particle expires.
	Offspring string `yaml:"offspring"`
}

func (p Pair) rng() particles.Range {
	return particles.Range{Min: p[0], Max: p[1]}
}

func (p Pair) vec() particles.Vector {
	return particles.Vector{X: p[0], Y: p[1]}
}

// ToConfig converts the spec into a simulator configuration named name.
func (s ParticleEmitterComponentSpec) ToConfig(name string) (particles.Config, error) {
	cfg := particles.DefaultConfig()
	if name != "" {
		cfg.Name = name
	}

	shape, err := particles.ParseEmissionShape(s.Shape)
	if err != nil {
		return cfg, fmt.Errorf("prefabs: emitter %s: %w", name, err)
	}
	mode, err := particles.ParseVelocityMode(s.VelocityMode)
	if err != nil {
		return cfg, fmt.Errorf("prefabs: emitter %s: %w", name, err)
	}

	cfg.Prefab = s.Prefab
	cfg.PixelSnap = s.PixelSnap
	if s.Pool != nil {
		cfg.Pool = *s.Pool
	}
	if s.InitialCapacity != nil {
		cfg.InitialCapacity = *s.InitialCapacity
	}
	if s.RunOnStart != nil {
		cfg.RunOnStart = *s.RunOnStart
	}
	if s.BaseColor != nil && s.BaseColor.Color != nil {
		cfg.BaseColor = s.BaseColor.Color
	}

	cfg.Shape = shape
	if s.Radius != nil {
		cfg.EmissionRadius = *s.Radius
	}
	if s.Extents != nil {
		cfg.EmissionExtents = s.Extents.vec()
	}

	if s.EmitOverTime != nil {
		cfg.EmitOverTime = *s.EmitOverTime
	}
	if s.ParticlesPerSecond != nil {
		cfg.ParticlesPerSecond = *s.ParticlesPerSecond
	}
	cfg.EmitOverDistance = s.EmitOverDistance
	if s.DistancePerParticle != nil {
		cfg.DistancePerParticle = *s.DistancePerParticle
	}

	cfg.BurstOnStart = s.BurstOnStart
	cfg.StartBurst = s.StartBurst.rng()
	for _, d := range s.BurstDelays {
		cfg.BurstDelays = append(cfg.BurstDelays, d.rng())
	}
	for _, c := range s.BurstCounts {
		cfg.BurstCounts = append(cfg.BurstCounts, c.rng())
	}

	if s.Lifetime != nil {
		cfg.Lifetime = s.Lifetime.rng()
	}
	cfg.VelocityMode = mode
	cfg.VelocityParam = s.Velocity.vec()
	if s.RadialFallback != nil {
		cfg.RadialFallback = s.RadialFallback.vec()
	}
	cfg.LinearDamp = s.LinearDamp
	cfg.DampTargetFactor = s.DampTargetFactor
	cfg.Acceleration = s.Acceleration.vec()

	if len(s.ColorOverLifetime) > 0 {
		stops := make([]particles.GradientStop, 0, len(s.ColorOverLifetime))
		for _, st := range s.ColorOverLifetime {
			stops = append(stops, particles.GradientStop{Offset: st.Offset, Color: st.Color.Color})
		}
		cfg.ColorOverLifetime = particles.NewGradient(stops...)
	}

	return cfg, nil
}
