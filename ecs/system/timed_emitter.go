package system

import (
	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
)

// TimedEmitterSystem stops one-shot emitters after their emit duration and
// removes them once their particles have had time to fade.
type TimedEmitterSystem struct{}

func NewTimedEmitterSystem() *TimedEmitterSystem {
	return &TimedEmitterSystem{}
}

func (s *TimedEmitterSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TimedEmitterComponent.Kind(), func(e ecs.Entity, te *component.TimedEmitter) {
		if te.Destroyed {
			return
		}
		te.Elapsed += dt

		em, _ := ecs.Get(w, e, component.ParticleEmitterComponent.Kind())
		prefab := ""
		if em != nil {
			prefab = em.Prefab
		}

		if !te.Stopped && te.EmitDuration > 0 && te.Elapsed >= te.EmitDuration {
			te.Stopped = true
			if em != nil && em.System != nil {
				em.System.StopEmitting()
			}
			w.Events().PushEmitter(ecs.EmitterEvent{Entity: e, Kind: ecs.EmitterStopped, Prefab: prefab})
		}

		if te.DestroyAfter > 0 && te.Elapsed >= te.DestroyAfter {
			te.Destroyed = true
			em.Release()
			w.Events().PushEmitter(ecs.EmitterEvent{Entity: e, Kind: ecs.EmitterExpired, Prefab: prefab})
			ecs.DestroyEntity(w, e)
		}
	})
}
