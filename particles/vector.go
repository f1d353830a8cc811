package particles

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vector is a 2D point or direction in simulation space.
type Vector = cp.Vector

// Up is the default direction used by radial velocity when a particle spawns
// exactly on the emitter anchor.
var Up = Vector{X: 0, Y: -1}

// moveToward moves from toward to by at most delta.
func moveToward(from, to Vector, delta float64) Vector {
	d := to.Sub(from)
	dist := d.Length()
	if dist <= delta || dist < 1e-9 {
		return to
	}
	return from.Add(d.Mult(delta / dist))
}

func round(v Vector) Vector {
	return Vector{X: math.Round(v.X), Y: math.Round(v.Y)}
}

func finite(v Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
