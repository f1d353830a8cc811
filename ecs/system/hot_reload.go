package system

import (
	"log"

	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
	"github.com/milk9111/particles/particles"
	"github.com/milk9111/particles/prefabs"
)

// ChangeSource yields pending prefab edits; *prefabs.Watcher satisfies it.
type ChangeSource interface {
	Poll() []prefabs.Change
}

// RebuildFunc creates a fresh emitter entity from a prefab. A non-nil at
// places the entity there instead of at the prefab transform.
type RebuildFunc func(w *ecs.World, prefab string, at *particles.Vector) (ecs.Entity, error)

// HotReloadSystem replaces emitter entities whose prefab or velocity script
// changed on disk.
type HotReloadSystem struct {
	source  ChangeSource
	rebuild RebuildFunc
	logger  *log.Logger
}

func NewHotReloadSystem(source ChangeSource, rebuild RebuildFunc, logger *log.Logger) *HotReloadSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &HotReloadSystem{source: source, rebuild: rebuild, logger: logger}
}

func (s *HotReloadSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.source == nil || s.rebuild == nil {
		return
	}

	for _, change := range s.source.Poll() {
		for _, e := range w.Query(component.ParticleEmitterComponent.Kind()) {
			em, ok := ecs.Get(w, e, component.ParticleEmitterComponent.Kind())
			if !ok || em == nil || !affected(em, change) {
				continue
			}
			s.reload(w, e, em)
		}
	}
}

func affected(em *component.ParticleEmitter, change prefabs.Change) bool {
	if change.Script {
		return em.Script != "" && prefabs.ScriptName(em.Script) == prefabs.ScriptName(change.Path)
	}
	return prefabs.Name(em.Prefab) == change.Name
}

func (s *HotReloadSystem) reload(w *ecs.World, e ecs.Entity, em *component.ParticleEmitter) {
	prefab := em.Prefab

	var at *particles.Vector
	old, hasTransform := ecs.Get(w, e, component.TransformComponent.Kind())
	if hasTransform && old != nil {
		at = &particles.Vector{X: old.X, Y: old.Y}
	}

	next, err := s.rebuild(w, prefab, at)
	if err != nil {
		// keep the running emitter when the edited file does not load
		s.logger.Printf("hot reload %s: %v", prefab, err)
		return
	}

	if oldOrbit, ok := ecs.Get(w, e, component.OrbitComponent.Kind()); ok && oldOrbit != nil {
		if o, ok := ecs.Get(w, next, component.OrbitComponent.Kind()); ok && o != nil {
			o.Angle = oldOrbit.Angle
		}
	}
	// the rebuilt emitter continues from where the old one was; moving it
	// there must not count as travelled distance
	if at != nil {
		if t, ok := ecs.Get(w, next, component.TransformComponent.Kind()); ok && t != nil {
			t.X, t.Y = at.X, at.Y
		}
		if nem, ok := ecs.Get(w, next, component.ParticleEmitterComponent.Kind()); ok && nem != nil && nem.System != nil {
			nem.System.Warp(*at)
			nem.Placed = true
		}
	}

	em.Release()
	ecs.DestroyEntity(w, e)
	w.Events().PushEmitter(ecs.EmitterEvent{Entity: next, Kind: ecs.EmitterReloaded, Prefab: prefab})
	s.logger.Printf("hot reload %s: entity %s -> %s", prefab, e, next)
}
