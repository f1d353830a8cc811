package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
)

type textureFn func() *image.NRGBA

var textures = map[string]textureFn{
	"dot":    func() *image.NRGBA { return disc(4, 0.6) },
	"ember":  func() *image.NRGBA { return disc(8, 0) },
	"square": func() *image.NRGBA { return square(4) },
	"spark":  spark,
}

// TextureNames lists the built-in particle textures.
func TextureNames() []string {
	names := make([]string, 0, len(textures))
	for name := range textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TextureMask renders a built-in white texture with an alpha falloff.
func TextureMask(name string) (*image.NRGBA, error) {
	fn, ok := textures[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown particle texture %q", name)
	}
	return fn(), nil
}

// disc draws a circle whose alpha fades linearly from hard (fraction of the
// radius) to the edge.
func disc(radius int, hard float64) *image.NRGBA {
	size := radius*2 + 1
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(radius) + 0.5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - radius)
			dy := float64(y - radius)
			d := math.Hypot(dx, dy) / r
			if d >= 1 {
				continue
			}
			a := 1.0
			if d > hard {
				a = (1 - d) / (1 - hard)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a * 255)})
		}
	}
	return img
}

func square(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func spark() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	dim := color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	for i := 0; i < 5; i++ {
		c := dim
		if i == 2 {
			c = white
		}
		img.SetNRGBA(i, 2, c)
		img.SetNRGBA(2, i, c)
	}
	return img
}
