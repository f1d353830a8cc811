package particles

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/jakecoffman/cp"
)

// Random supplies the uniform samples the simulator needs.
type Random interface {
	// Float01 returns a uniform value in [0, 1).
	Float01() float64
	// InsideCircle returns a uniform point inside a disk of the given radius.
	InsideCircle(radius float64) Vector
	// InsideExtents returns a uniform point inside [-e.X, e.X] x [-e.Y, e.Y].
	InsideExtents(extents Vector) Vector
	// Unit returns a uniformly random unit vector.
	Unit() Vector
}

type pcgRandom struct {
	rng *rand.Rand
}

// NewRandom returns a Random backed by a PCG source seeded with seed.
func NewRandom(seed uint64) Random {
	return &pcgRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func newTimeRandom() Random {
	return NewRandom(uint64(time.Now().UnixNano()))
}

func (r *pcgRandom) Float01() float64 {
	return r.rng.Float64()
}

func (r *pcgRandom) InsideCircle(radius float64) Vector {
	dist := radius * math.Sqrt(r.rng.Float64())
	return cp.ForAngle(r.rng.Float64() * 2 * math.Pi).Mult(dist)
}

func (r *pcgRandom) InsideExtents(extents Vector) Vector {
	return Vector{
		X: (r.rng.Float64()*2 - 1) * extents.X,
		Y: (r.rng.Float64()*2 - 1) * extents.Y,
	}
}

func (r *pcgRandom) Unit() Vector {
	return cp.ForAngle(r.rng.Float64() * 2 * math.Pi)
}

// Range is an inclusive (Min, Max) pair sampled by linear interpolation.
type Range struct {
	Min float64
	Max float64
}

// Sample lerps between Min and Max by a uniform random factor.
func (r Range) Sample(rng Random) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + (r.Max-r.Min)*rng.Float01()
}

// clampPositive replaces non-positive bounds with floor.
func (r Range) clampPositive(floor float64) Range {
	if r.Min <= 0 {
		r.Min = floor
	}
	if r.Max <= 0 {
		r.Max = floor
	}
	return r
}
