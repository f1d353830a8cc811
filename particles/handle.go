package particles

import (
	"errors"
	"image/color"
)

// ErrNotHandle is reported when a factory produces an object that cannot be
// driven as a particle.
var ErrNotHandle = errors.New("particles: instantiated object does not implement Handle")

// Texture is an opaque texture reference handed to Handle.SetTexture.
type Texture any

// Handle is the external visual representation of one particle. The System
// owns a handle from spawn until it is pooled or destroyed.
type Handle interface {
	SetPosition(p Vector)
	SetColor(c color.Color)
	SetVisible(visible bool)
	SetTexture(t Texture)

	OnSpawn()
	OnUpdate(elapsed, max float64)
	OnDestroy()
	// Destroy releases the handle permanently.
	Destroy()
}

// Factory instantiates new particle objects from a prefab reference.
type Factory interface {
	Instantiate(prefab string) (any, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(prefab string) (any, error)

func (f FactoryFunc) Instantiate(prefab string) (any, error) {
	return f(prefab)
}
