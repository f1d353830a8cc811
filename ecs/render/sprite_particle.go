package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/particles/particles"
)

// SpriteParticle draws one particle as a tinted image.
type SpriteParticle struct {
	set      *SpriteSet
	image    *ebiten.Image
	fallback *ebiten.Image

	X, Y    float64
	Color   color.Color
	Visible bool
	Scale   float64

	// Age is the lifetime progress reported by the last OnUpdate.
	Age float64
}

func (p *SpriteParticle) SetPosition(v particles.Vector) {
	p.X, p.Y = v.X, v.Y
}

func (p *SpriteParticle) SetColor(c color.Color) {
	p.Color = c
}

func (p *SpriteParticle) SetVisible(visible bool) {
	p.Visible = visible
}

// SetTexture installs the fallback used when the sprite has no own image.
func (p *SpriteParticle) SetTexture(t particles.Texture) {
	if img, ok := t.(*ebiten.Image); ok && img != nil {
		p.fallback = img
	}
}

func (p *SpriteParticle) OnSpawn() {
	p.Age = 0
	p.Scale = p.baseScale()
}

func (p *SpriteParticle) OnUpdate(elapsed, max float64) {
	if max > 0 {
		p.Age = elapsed / max
	}
	p.Scale = p.baseScale()
	if p.set != nil && p.set.Shrink {
		p.Scale *= 1 - min(p.Age, 1)
	}
}

// OnDestroy hands the sprite position to the set's offspring hook.
func (p *SpriteParticle) OnDestroy() {
	if p.set != nil && p.set.Offspring != nil {
		p.set.Offspring(p.X, p.Y)
	}
}

// Destroy removes the sprite from its set for good.
func (p *SpriteParticle) Destroy() {
	p.Visible = false
	if p.set != nil {
		p.set.remove(p)
		p.set = nil
	}
}

func (p *SpriteParticle) baseScale() float64 {
	if p.set == nil || p.set.Scale <= 0 {
		return 1
	}
	return p.set.Scale
}

// Image returns the image drawn for this sprite.
func (p *SpriteParticle) Image() *ebiten.Image {
	if p.image != nil {
		return p.image
	}
	return p.fallback
}
