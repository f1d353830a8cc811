package ecs

import "github.com/milk9111/particles/ecs/component"

// Add stores value as e's component of kind, replacing any previous value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	return w.store(kind.ID(), false).Remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e).(*T)
	return v, ok && v != nil
}

// ForEach calls fn for every live entity holding kind. fn may destroy the
// entity it is given.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return
	}
	ents := append([]Entity(nil), s.Entities()...)
	for _, e := range ents {
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

// ForEach2 calls fn for every live entity holding both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
