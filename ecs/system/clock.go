package system

import "github.com/milk9111/particles/ecs"

// Clock accumulates simulated time. It runs first so scripts evaluated later
// in the frame see the current time.
type Clock struct {
	Elapsed float64
	Frames  int
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Update(_ *ecs.World, dt float64) {
	c.Elapsed += dt
	c.Frames++
}

// Now returns the accumulated time in seconds.
func (c *Clock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.Elapsed
}
