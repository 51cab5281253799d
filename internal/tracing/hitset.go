package tracing

import "tracesweep/internal/engine"

// hitSet collects hits once per identity, in arrival order
type hitSet struct {
	hits []engine.HitResult
	keys map[engine.HitKey]struct{}
}

// addUnique adds h unless a hit with the same identity is already present
func (s *hitSet) addUnique(h engine.HitResult) bool {
	if s.keys == nil {
		s.keys = make(map[engine.HitKey]struct{})
	}
	k := h.Key()
	if _, exists := s.keys[k]; exists {
		return false
	}
	s.keys[k] = struct{}{}
	s.hits = append(s.hits, h)
	return true
}

// addBlocking keeps only the blocking hits of a query result
func (s *hitSet) addBlocking(hits []engine.HitResult) {
	for _, h := range hits {
		if h.BlockingHit {
			s.addUnique(h)
		}
	}
}

// uniqueBlocking returns the blocking hits of one query, each identity once.
// Separate tracked entries hitting the same thing each keep their hit, which
// is what lets the overlap set count them.
func uniqueBlocking(hits []engine.HitResult) []engine.HitResult {
	var s hitSet
	s.addBlocking(hits)
	return s.hits
}
