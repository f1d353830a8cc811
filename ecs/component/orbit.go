package component

// Orbit moves the entity around a fixed center at a constant angular speed
// in radians per second.
type Orbit struct {
	CenterX float64
	CenterY float64
	Radius  float64
	Speed   float64
	Angle   float64
}

var OrbitComponent = NewComponent[Orbit]()
