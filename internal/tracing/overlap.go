package tracing

import "tracesweep/internal/engine"

type overlapEntry struct {
	hit   engine.HitResult
	count int
}

// overlapSet is the persistent set of things a tracer currently overlaps.
// Each entry counts how many tracked points or shapes hold it; it is removed
// exactly when that count drops to zero.
type overlapSet struct {
	entries []*overlapEntry
	index   map[engine.HitKey]*overlapEntry
}

func (s *overlapSet) find(k engine.HitKey) *overlapEntry {
	if s.index == nil {
		return nil
	}
	return s.index[k]
}

// applyForward counts forward hits in and returns the ones that began
// overlapping. Hits at distance zero started inside their target and are
// left out.
func (s *overlapSet) applyForward(hits []engine.HitResult) []engine.HitResult {
	var begins []engine.HitResult
	for _, h := range hits {
		if h.Distance == 0 {
			continue
		}
		if e := s.find(h.Key()); e != nil {
			e.count++
			continue
		}
		if s.index == nil {
			s.index = make(map[engine.HitKey]*overlapEntry)
		}
		e := &overlapEntry{hit: h, count: 1}
		s.entries = append(s.entries, e)
		s.index[h.Key()] = e
		begins = append(begins, h)
	}
	return begins
}

// applyReverse counts reverse hits out and returns the overlaps that ended.
// A reverse hit on something never begun is ignored.
func (s *overlapSet) applyReverse(hits []engine.HitResult) []engine.HitResult {
	var ends []engine.HitResult
	for _, h := range hits {
		if h.Distance == 0 {
			continue
		}
		e := s.find(h.Key())
		if e == nil {
			continue
		}
		e.count--
		if e.count > 0 {
			continue
		}
		s.remove(e)
		ends = append(ends, e.hit)
	}
	return ends
}

// removeDeparted drops every overlap whose object has left its scene and
// returns them in the order they began.
func (s *overlapSet) removeDeparted() []engine.HitResult {
	var departed []*overlapEntry
	for _, e := range s.entries {
		if e.hit.GameObject != nil && e.hit.GameObject.Scene == nil {
			departed = append(departed, e)
		}
	}
	ends := make([]engine.HitResult, 0, len(departed))
	for _, e := range departed {
		s.remove(e)
		ends = append(ends, e.hit)
	}
	return ends
}

func (s *overlapSet) remove(e *overlapEntry) {
	delete(s.index, e.hit.Key())
	for i, o := range s.entries {
		if o == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *overlapSet) clear() {
	s.entries = nil
	s.index = nil
}

func (s *overlapSet) count(k engine.HitKey) int {
	if e := s.find(k); e != nil {
		return e.count
	}
	return 0
}

func (s *overlapSet) len() int {
	return len(s.entries)
}
