package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
)

type FollowCursorSystem struct {
	cursor func() (int, int)
}

func NewFollowCursorSystem() *FollowCursorSystem {
	return &FollowCursorSystem{cursor: ebiten.CursorPosition}
}

func (s *FollowCursorSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.cursor == nil {
		return
	}

	x, y := s.cursor()
	ecs.ForEach2(w, component.FollowCursorComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, f *component.FollowCursor, t *component.Transform) {
		t.X = float64(x) + f.OffsetX
		t.Y = float64(y) + f.OffsetY
	})
}
