package particles

import (
	"fmt"
	"image/color"
	"log"
	"math"
)

// Lifetime is a particle's elapsed and maximum lifetime in seconds.
type Lifetime struct {
	Elapsed float64
	Max     float64
}

// Progress is Elapsed/Max. A zero Max reads as expired once any time passed.
func (l Lifetime) Progress() float64 {
	if l.Max <= 0 {
		if l.Elapsed > 0 {
			return 2
		}
		return 0
	}
	return l.Elapsed / l.Max
}

// Env carries the capabilities a System depends on.
type Env struct {
	Factory Factory
	Random  Random
	Logger  *log.Logger
}

// Stats counts lifecycle events since the System was created.
type Stats struct {
	Spawned   uint64
	Destroyed uint64
	Reused    uint64
	Skipped   uint64
}

// System simulates a pool of particles. Per-particle attributes live in
// parallel slices indexed by slot; every insert and removal touches all of
// them at the same index.
//
// A System is not safe for concurrent use; Advance must be driven from a
// single update loop.
type System struct {
	cfg     Config
	factory Factory
	rng     Random
	logger  *log.Logger

	handles        []Handle
	lifetimes      []Lifetime
	positions      []Vector
	colors         []color.Color
	velocities     []Vector
	initVelocities []Vector

	pool []Handle

	emitting bool
	anchor   Vector
	dt       float64

	secondsPerParticle float64
	timeAccum          float64

	distanceAccum float64
	lastAnchor    Vector

	bursts      []Burst
	burstAccums []float64

	stats Stats
}

// New creates a System from cfg. Configuration problems are logged and
// corrected; New never fails.
func New(cfg Config, env Env) *System {
	s := &System{
		cfg:                cfg,
		factory:            env.Factory,
		rng:                env.Random,
		logger:             env.Logger,
		secondsPerParticle: 1,
	}
	if s.rng == nil {
		s.rng = newTimeRandom()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cfg.BaseColor == nil {
		s.cfg.BaseColor = color.White
	}
	if g, ok := s.cfg.ColorOverLifetime.(*Gradient); ok && g.Len() == 0 {
		s.cfg.ColorOverLifetime = nil
	}
	switch rate := s.cfg.ParticlesPerSecond; {
	case rate > 0 && !math.IsInf(rate, 1):
		s.secondsPerParticle = 1 / rate
	case s.cfg.EmitOverTime && (math.IsInf(rate, 0) || math.IsNaN(rate)):
		s.logf("[warning] particles per second %v is not finite, keeping %vs per particle", rate, s.secondsPerParticle)
	}

	if s.cfg.Prefab == "" || s.factory == nil {
		s.logf("[error] no particle prefab has been set")
	}

	capacity := max(s.cfg.InitialCapacity, 0)
	s.handles = make([]Handle, 0, capacity)
	s.lifetimes = make([]Lifetime, 0, capacity)
	s.positions = make([]Vector, 0, capacity)
	s.colors = make([]color.Color, 0, capacity)
	s.velocities = make([]Vector, 0, capacity)
	s.initVelocities = make([]Vector, 0, capacity)

	s.initBursts()

	if s.cfg.RunOnStart {
		s.StartEmitting(s.cfg.BurstOnStart)
	}
	return s
}

func (s *System) initBursts() {
	if len(s.cfg.BurstDelays) != len(s.cfg.BurstCounts) {
		s.logf("[warning] mismatched burst delays (%d) and burst counts (%d), truncating to shortest",
			len(s.cfg.BurstDelays), len(s.cfg.BurstCounts))
	}
	s.bursts = s.cfg.Bursts()
	s.burstAccums = make([]float64, len(s.bursts))
	for i := range s.bursts {
		b := s.bursts[i]
		clamped := Burst{Delay: b.Delay.clampPositive(minBurstBound), Count: b.Count.clampPositive(minBurstBound)}
		if clamped != b {
			s.logf("[warning] burst %d has a non-positive bound, clamped to %.1f", i, minBurstBound)
		}
		s.bursts[i] = clamped
		s.burstAccums[i] = clamped.Delay.Sample(s.rng)
	}
}

func (s *System) logf(format string, args ...any) {
	s.logger.Printf("particles: %s: "+format, append([]any{s.cfg.Name}, args...)...)
}

// StartEmitting enables the emission policies. When fireInitialBurst is set a
// single burst sized by Config.StartBurst is spawned immediately.
func (s *System) StartEmitting(fireInitialBurst bool) {
	s.emitting = true
	if fireInitialBurst {
		s.spawnN(int(s.cfg.StartBurst.Sample(s.rng)))
	}
}

// StopEmitting disables emission. Live particles keep simulating.
func (s *System) StopEmitting() {
	s.emitting = false
}

// Emitting reports whether emission policies run on Advance.
func (s *System) Emitting() bool {
	return s.emitting
}

// SetPosition moves the emitter anchor.
func (s *System) SetPosition(p Vector) {
	s.anchor = p
}

// Position returns the emitter anchor.
func (s *System) Position() Vector {
	return s.anchor
}

// SetCustomVelocity installs the VelocityCustom callback.
func (s *System) SetCustomVelocity(fn func() Vector) {
	s.cfg.CustomVelocity = fn
}

// Config returns the normalized configuration.
func (s *System) Config() Config {
	return s.cfg
}

// Count returns the number of live particles.
func (s *System) Count() int {
	return len(s.handles)
}

// PoolSize returns the number of pooled handles waiting for reuse.
func (s *System) PoolSize() int {
	return len(s.pool)
}

// Stats returns the lifecycle counters accumulated so far.
func (s *System) Stats() Stats {
	return s.stats
}

// Clear destroys every live particle as if its lifetime had run out.
func (s *System) Clear() {
	for i := len(s.handles) - 1; i >= 0; i-- {
		s.destroyAt(i)
	}
	s.checkInvariants()
}

// Release clears the system and permanently destroys every pooled handle.
func (s *System) Release() {
	s.StopEmitting()
	s.Clear()
	for i := len(s.pool) - 1; i >= 0; i-- {
		s.pool[i].Destroy()
		s.pool[i] = nil
	}
	s.pool = s.pool[:0]
}

// checkInvariants panics when the slot slices drift apart.
func (s *System) checkInvariants() {
	n := len(s.handles)
	if len(s.lifetimes) != n || len(s.positions) != n || len(s.colors) != n ||
		len(s.velocities) != n || len(s.initVelocities) != n {
		panic(fmt.Sprintf("particles: slot arrays out of step: handles=%d lifetimes=%d positions=%d colors=%d velocities=%d init=%d",
			n, len(s.lifetimes), len(s.positions), len(s.colors), len(s.velocities), len(s.initVelocities)))
	}
}

// Warp moves the anchor without counting the jump as travelled distance.
func (s *System) Warp(p Vector) {
	s.anchor = p
	s.lastAnchor = p
}
