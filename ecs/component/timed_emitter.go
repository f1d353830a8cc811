package component

// TimedEmitter stops emission after EmitDuration seconds and destroys the
// entity after DestroyAfter seconds. A zero duration disables that step.
type TimedEmitter struct {
	EmitDuration float64
	DestroyAfter float64

	Elapsed   float64
	Stopped   bool
	Destroyed bool
}

var TimedEmitterComponent = NewComponent[TimedEmitter]()
