package ecs

import "github.com/milk9111/particles/ecs/component"

// World owns entities and their components.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its id.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

func (w *World) IsAlive(e Entity) bool {
	return IsAlive(w, e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.alive()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// First returns the first live entity holding kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	if w == nil || !kind.Valid() {
		return 0, false
	}
	for _, e := range w.store(kind.ID(), false).Entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}

// Query returns live entities holding every kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	return intersect(w, sets)
}
