package particles

import "fmt"

// distanceEpsilon absorbs float drift when accumulated travel lands on a
// multiple of DistancePerParticle.
const distanceEpsilon = 1e-9

// Advance steps the simulation by dt seconds: age, cull, move, recolor,
// notify, then emit. Particles spawned during this call are not moved until
// the next one.
func (s *System) Advance(dt float64) {
	s.dt = dt

	s.updateLifetimes()
	s.updateParticles()

	travelled := s.anchor.Sub(s.lastAnchor).Length()
	s.lastAnchor = s.anchor
	if s.emitting {
		s.updateEmission(travelled)
	}

	s.checkInvariants()
}

func (s *System) updateLifetimes() {
	for i := range s.lifetimes {
		s.lifetimes[i].Elapsed += s.dt
	}

	for i := 0; i < len(s.handles); {
		if s.lifetimes[i].Progress() > 1 {
			// the next slot shifts into i
			s.destroyAt(i)
			continue
		}
		i++
	}
}

// destroyAt retires slot i and compacts every slot slice.
func (s *System) destroyAt(i int) {
	if i < 0 || i >= len(s.handles) {
		panic(fmt.Sprintf("particles: destroy of slot %d outside [0,%d)", i, len(s.handles)))
	}
	h := s.handles[i]
	h.OnDestroy()
	if s.cfg.Pool {
		s.pool = append(s.pool, h)
		h.SetVisible(false)
	} else {
		h.Destroy()
	}
	s.stats.Destroyed++

	s.handles = removeAt(s.handles, i)
	s.lifetimes = removeAt(s.lifetimes, i)
	s.positions = removeAt(s.positions, i)
	s.colors = removeAt(s.colors, i)
	s.velocities = removeAt(s.velocities, i)
	s.initVelocities = removeAt(s.initVelocities, i)
}

// removeAt deletes index i preserving order and clears the vacated tail.
func removeAt[T any](xs []T, i int) []T {
	last := len(xs) - 1
	copy(xs[i:], xs[i+1:])
	var zero T
	xs[last] = zero
	return xs[:last]
}

func (s *System) updateParticles() {
	dt := s.dt
	accel := s.cfg.Acceleration.Mult(dt)
	damp := s.cfg.LinearDamp * dt

	for i := range s.handles {
		vel := moveToward(s.velocities[i], s.initVelocities[i].Mult(s.cfg.DampTargetFactor), damp)
		vel = vel.Add(accel)
		s.velocities[i] = vel
		s.positions[i] = s.positions[i].Add(vel.Mult(dt))

		p := s.positions[i]
		if s.cfg.PixelSnap {
			p = round(p)
		}
		s.handles[i].SetPosition(p)
	}

	if curve := s.cfg.ColorOverLifetime; curve != nil {
		for i := range s.handles {
			s.handles[i].SetColor(curve.Interpolate(s.lifetimes[i].Progress()))
		}
	} else {
		for i := range s.handles {
			s.handles[i].SetColor(s.colors[i])
		}
	}

	for i := range s.handles {
		s.handles[i].OnUpdate(s.lifetimes[i].Elapsed, s.lifetimes[i].Max)
	}
}

func (s *System) updateEmission(travelled float64) {
	if s.cfg.EmitOverTime {
		s.timeAccum += s.dt
		for s.timeAccum >= s.secondsPerParticle {
			s.spawn()
			s.timeAccum -= s.secondsPerParticle
		}
	} else {
		s.timeAccum = 0
	}

	if s.cfg.EmitOverDistance && s.cfg.DistancePerParticle > 0 {
		s.distanceAccum += travelled
		for s.distanceAccum >= s.cfg.DistancePerParticle-distanceEpsilon {
			s.spawn()
			s.distanceAccum -= s.cfg.DistancePerParticle
		}
	} else {
		s.distanceAccum = 0
	}

	for i := range s.bursts {
		s.burstAccums[i] -= s.dt
		if s.burstAccums[i] < 0 {
			s.spawnN(int(s.bursts[i].Count.Sample(s.rng)))
			// re-arm from the negative remainder, not from zero
			s.burstAccums[i] += s.bursts[i].Delay.Sample(s.rng)
		}
	}
}
