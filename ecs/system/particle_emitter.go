package system

import (
	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
	"github.com/milk9111/particles/particles"
)

// ParticleEmitterSystem moves each emitter anchor onto its entity transform
// and advances the simulation.
type ParticleEmitterSystem struct{}

func NewParticleEmitterSystem() *ParticleEmitterSystem {
	return &ParticleEmitterSystem{}
}

func (s *ParticleEmitterSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.ParticleEmitterComponent.Kind(), func(e ecs.Entity, em *component.ParticleEmitter) {
		if em.System == nil {
			return
		}

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && t != nil {
			pos := particles.Vector{X: t.X, Y: t.Y}
			// the first placement is a teleport, not travelled distance
			if !em.Placed {
				em.System.Warp(pos)
				em.Placed = true
			} else {
				em.System.SetPosition(pos)
			}
		}

		em.System.Advance(dt)
	})
}
