package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteSet instantiates and draws the sprites of one emitter. It is the
// particle factory handed to the simulator.
type SpriteSet struct {
	Scale  float64
	Shrink bool
	// Offspring, when set, is called with the position of every particle
	// whose lifetime ends.
	Offspring func(x, y float64)

	sprites []*SpriteParticle
	load    func(string) (*ebiten.Image, error)
}

func NewSpriteSet(scale float64, shrink bool) *SpriteSet {
	return NewSpriteSetWithLoader(scale, shrink, LoadImage)
}

// NewSpriteSetWithLoader is NewSpriteSet with a custom texture loader.
func NewSpriteSetWithLoader(scale float64, shrink bool, load func(string) (*ebiten.Image, error)) *SpriteSet {
	if load == nil {
		load = LoadImage
	}
	return &SpriteSet{Scale: scale, Shrink: shrink, load: load}
}

// Instantiate creates a sprite for a built-in texture name.
func (s *SpriteSet) Instantiate(prefab string) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("render: nil sprite set")
	}
	load := s.load
	if load == nil {
		load = LoadImage
	}
	img, err := load(prefab)
	if err != nil {
		return nil, err
	}
	p := &SpriteParticle{set: s, image: img, Scale: 1}
	s.sprites = append(s.sprites, p)
	return p, nil
}

// Len returns how many sprites exist, pooled ones included.
func (s *SpriteSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sprites)
}

// Visible returns how many sprites are currently shown.
func (s *SpriteSet) Visible() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range s.sprites {
		if p.Visible {
			n++
		}
	}
	return n
}

func (s *SpriteSet) remove(p *SpriteParticle) {
	for i, sp := range s.sprites {
		if sp == p {
			last := len(s.sprites) - 1
			s.sprites[i] = s.sprites[last]
			s.sprites[last] = nil
			s.sprites = s.sprites[:last]
			return
		}
	}
}

// Draw renders visible sprites centered on their positions, offset by the
// camera.
func (s *SpriteSet) Draw(screen *ebiten.Image, camX, camY float64) {
	if s == nil || screen == nil {
		return
	}
	for _, p := range s.sprites {
		img := p.Image()
		if !p.Visible || img == nil || p.Scale <= 0 {
			continue
		}
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
		op.GeoM.Scale(p.Scale, p.Scale)
		op.GeoM.Translate(p.X-camX, p.Y-camY)
		if p.Color != nil {
			op.ColorScale.ScaleWithColor(p.Color)
		}
		screen.DrawImage(img, op)
	}
}
