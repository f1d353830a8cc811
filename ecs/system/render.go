package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
)

// RenderSystem draws emitter sprites back to front by render layer.
type RenderSystem struct {
	CamX, CamY float64
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

type drawItem struct {
	entity  ecs.Entity
	layer   int
	emitter *component.ParticleEmitter
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, item := range drawOrder(w) {
		item.emitter.Sprites.Draw(screen, r.CamX, r.CamY)
	}
}

// drawOrder lists emitters with sprites sorted by layer, then entity for a
// stable order within a layer.
func drawOrder(w *ecs.World) []drawItem {
	var items []drawItem
	ecs.ForEach(w, component.ParticleEmitterComponent.Kind(), func(e ecs.Entity, em *component.ParticleEmitter) {
		if em.Sprites == nil {
			return
		}
		layer := 0
		if rl, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok && rl != nil {
			layer = rl.Index
		}
		items = append(items, drawItem{entity: e, layer: layer, emitter: em})
	})

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return items[i].entity < items[j].entity
	})
	return items
}
