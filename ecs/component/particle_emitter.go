package component

import (
	"github.com/milk9111/particles/ecs/render"
	"github.com/milk9111/particles/particles"
)

// ParticleEmitter attaches a particle simulator to an entity. The emitter
// anchor follows the entity's Transform.
type ParticleEmitter struct {
	// Prefab is the prefab file the emitter was built from, used for hot reload.
	Prefab string
	// Script names the tengo velocity script, if any.
	Script string

	System  *particles.System
	Sprites *render.SpriteSet

	// Placed is set once the anchor has been warped onto the transform.
	Placed bool
}

// Release tears the simulator down without spawning offspring.
func (em *ParticleEmitter) Release() {
	if em == nil {
		return
	}
	if em.Sprites != nil {
		em.Sprites.Offspring = nil
	}
	if em.System != nil {
		em.System.Release()
	}
}

// Clear drops live particles without spawning offspring.
func (em *ParticleEmitter) Clear() {
	if em == nil || em.System == nil {
		return
	}
	if em.Sprites == nil {
		em.System.Clear()
		return
	}
	hook := em.Sprites.Offspring
	em.Sprites.Offspring = nil
	em.System.Clear()
	em.Sprites.Offspring = hook
}

var ParticleEmitterComponent = NewComponent[ParticleEmitter]()
