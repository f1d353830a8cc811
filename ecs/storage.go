package ecs

// entityStore tracks entity generations and free ids. Ids start at 1 so the
// zero Entity is never alive.
type entityStore struct {
	gen  []generation
	live []bool
	free []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.live = append(s.live, false)
		id = entityID(len(s.gen))
	}
	s.live[id-1] = true
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.gen[idx]++
	s.live[idx] = false
	s.free = append(s.free, e.id())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.live[id-1] && s.gen[id-1] == e.generation()
}

func (s *entityStore) alive() []Entity {
	out := make([]Entity, 0, len(s.gen)-len(s.free))
	for i, ok := range s.live {
		if ok {
			out = append(out, makeEntity(entityID(i+1), s.gen[i]))
		}
	}
	return out
}
