package system

import (
	"math"

	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
)

type OrbitSystem struct{}

func NewOrbitSystem() *OrbitSystem {
	return &OrbitSystem{}
}

func (s *OrbitSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.OrbitComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, o *component.Orbit, t *component.Transform) {
		o.Angle = math.Mod(o.Angle+o.Speed*dt, 2*math.Pi)
		t.X = o.CenterX + math.Cos(o.Angle)*o.Radius
		t.Y = o.CenterY + math.Sin(o.Angle)*o.Radius
	})
}
