package particles

import (
	"fmt"
	"image/color"
)

func (s *System) spawnN(n int) {
	for i := 0; i < n; i++ {
		s.spawn()
	}
}

// spawn materializes one particle slot. Missing prefabs and factory failures
// skip the spawn.
func (s *System) spawn() {
	if s.cfg.Prefab == "" || s.factory == nil {
		s.stats.Skipped++
		return
	}

	h, reused, err := s.acquire()
	if err != nil {
		s.stats.Skipped++
		s.logf("%v", err)
		return
	}
	if reused {
		s.stats.Reused++
	}
	h.SetTexture(s.cfg.FallbackTexture)

	lifetime := Lifetime{Max: s.cfg.Lifetime.Sample(s.rng)}

	position := s.anchor.Add(s.shapeOffset())
	h.SetPosition(position)

	var c color.Color = s.cfg.BaseColor
	if s.cfg.ColorOverLifetime != nil {
		c = s.cfg.ColorOverLifetime.Interpolate(0)
	}
	h.SetColor(c)

	vel := s.initialVelocity(position)

	s.handles = append(s.handles, h)
	s.lifetimes = append(s.lifetimes, lifetime)
	s.positions = append(s.positions, position)
	s.colors = append(s.colors, c)
	s.velocities = append(s.velocities, vel)
	s.initVelocities = append(s.initVelocities, vel)
	s.stats.Spawned++

	h.OnSpawn()
	h.SetVisible(true)
}

// acquire pops a pooled handle or instantiates a new one.
func (s *System) acquire() (Handle, bool, error) {
	if s.cfg.Pool && len(s.pool) > 0 {
		last := len(s.pool) - 1
		h := s.pool[last]
		s.pool[last] = nil
		s.pool = s.pool[:last]
		return h, true, nil
	}

	obj, err := s.factory.Instantiate(s.cfg.Prefab)
	if err != nil {
		return nil, false, err
	}
	h, ok := obj.(Handle)
	if !ok || h == nil {
		return nil, false, fmt.Errorf("%w: prefab %q produced %T", ErrNotHandle, s.cfg.Prefab, obj)
	}
	return h, false, nil
}

func (s *System) shapeOffset() Vector {
	switch s.cfg.Shape {
	case ShapeCircle:
		return s.rng.InsideCircle(s.cfg.EmissionRadius)
	case ShapeRectangle:
		return s.rng.InsideExtents(s.cfg.EmissionExtents)
	default:
		return Vector{}
	}
}

func (s *System) initialVelocity(position Vector) Vector {
	param := s.cfg.VelocityParam
	switch s.cfg.VelocityMode {
	case VelocityConstant:
		return param
	case VelocityPointRadial:
		power := Range{Min: param.X, Max: param.Y}.Sample(s.rng)
		return s.rng.Unit().Mult(power)
	case VelocityRadial:
		delta := position.Sub(s.anchor)
		power := delta.Length() * Range{Min: param.X, Max: param.Y}.Sample(s.rng)
		return s.radialDirection(delta).Mult(power)
	case VelocityCustom:
		if s.cfg.CustomVelocity == nil {
			return Vector{}
		}
		v := s.cfg.CustomVelocity()
		if !finite(v) {
			return Vector{}
		}
		return v
	}
	return Vector{}
}

func (s *System) radialDirection(delta Vector) Vector {
	if delta.LengthSq() == 0 {
		fallback := s.cfg.RadialFallback
		if fallback.LengthSq() == 0 {
			return Up
		}
		return fallback
	}
	return delta.Mult(1 / delta.Length())
}
