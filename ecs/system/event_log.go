package system

import (
	"log"

	"github.com/milk9111/particles/ecs"
)

// EventLogSystem logs emitter lifecycle events and keeps per-kind counts.
// It should run last so it sees the events pushed during the frame.
type EventLogSystem struct {
	logger *log.Logger
	debug  bool
	Counts map[ecs.EmitterEventKind]int
}

func NewEventLogSystem(logger *log.Logger, debug bool) *EventLogSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &EventLogSystem{logger: logger, debug: debug, Counts: map[ecs.EmitterEventKind]int{}}
}

func (s *EventLogSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	for _, evt := range w.Events().Peek() {
		emitter, ok := evt.Data.(ecs.EmitterEvent)
		if !ok {
			continue
		}
		s.Counts[emitter.Kind]++
		if s.debug {
			s.logger.Printf("emitter %s: %s (%s)", emitter.Entity, emitter.Kind, emitter.Prefab)
		}
	}
}
