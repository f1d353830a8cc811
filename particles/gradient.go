package particles

import (
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Curve maps a normalized lifetime progress to a color.
type Curve interface {
	Interpolate(t float64) color.Color
}

// GradientStop is one keyed color of a Gradient.
type GradientStop struct {
	Offset float64
	Color  color.Color
}

type gradientKey struct {
	offset float64
	rgb    colorful.Color
	alpha  float64
}

// Gradient blends between color stops in RGB space with linear alpha.
// Progress outside the first/last offset holds the edge color.
type Gradient struct {
	keys []gradientKey
}

// NewGradient builds a gradient from stops in any order.
func NewGradient(stops ...GradientStop) *Gradient {
	g := &Gradient{keys: make([]gradientKey, 0, len(stops))}
	for _, s := range stops {
		if s.Color == nil {
			continue
		}
		rgb, alpha := splitColor(s.Color)
		g.keys = append(g.keys, gradientKey{offset: s.Offset, rgb: rgb, alpha: alpha})
	}
	sort.SliceStable(g.keys, func(i, j int) bool { return g.keys[i].offset < g.keys[j].offset })
	return g
}

// Len returns the number of stops.
func (g *Gradient) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}

func (g *Gradient) Interpolate(t float64) color.Color {
	if g == nil || len(g.keys) == 0 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if math.IsNaN(t) {
		t = 0
	}
	first := g.keys[0]
	if t <= first.offset || len(g.keys) == 1 {
		return joinColor(first.rgb, first.alpha)
	}
	last := g.keys[len(g.keys)-1]
	if t >= last.offset {
		return joinColor(last.rgb, last.alpha)
	}

	i := sort.Search(len(g.keys), func(i int) bool { return g.keys[i].offset > t })
	a, b := g.keys[i-1], g.keys[i]
	span := b.offset - a.offset
	if span <= 0 {
		return joinColor(b.rgb, b.alpha)
	}
	f := (t - a.offset) / span
	return joinColor(a.rgb.BlendRgb(b.rgb, f), a.alpha+(b.alpha-a.alpha)*f)
}

func splitColor(c color.Color) (colorful.Color, float64) {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return colorful.Color{}, 0
	}
	fa := float64(a)
	return colorful.Color{R: float64(r) / fa, G: float64(g) / fa, B: float64(b) / fa}, fa / 0xffff
}

func joinColor(rgb colorful.Color, alpha float64) color.NRGBA {
	r, g, b := rgb.Clamped().RGB255()
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
