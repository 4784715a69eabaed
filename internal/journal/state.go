package journal

import "sync"

// Unresolved is the sentinel commander name used before any identity event
// has been observed.
const Unresolved = "Unknown"

// Snapshot is the immutable derived state handed to consumers. Copies are
// safe to read without synchronization.
type Snapshot struct {
	Commander string
	System    string
	Coords    *[3]float64
	Version   uint64
}

// State folds journal records into the current snapshot. Mutation happens
// only on the poll goroutine; Snapshot may be called from anywhere.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewState returns an empty state with the identity unresolved.
func NewState() *State {
	return &State{snap: Snapshot{Commander: Unresolved}}
}

// Apply folds one record into the state using last-writer-wins semantics
// per field and reports whether anything changed. Identity events always
// win over the previous identity; a location event without coordinates
// never clears a previously known coordinate.
func (s *State) Apply(rec *Record) bool {
	if rec == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	switch {
	case rec.Identity != nil:
		if rec.Identity.Name != s.snap.Commander {
			s.snap.Commander = rec.Identity.Name
			changed = true
		}
	case rec.Location != nil:
		if rec.Location.System != "" && rec.Location.System != s.snap.System {
			s.snap.System = rec.Location.System
			changed = true
		}
		if rec.Location.Coords != nil {
			coords := *rec.Location.Coords
			if s.snap.Coords == nil || *s.snap.Coords != coords {
				s.snap.Coords = &coords
				changed = true
			}
		}
	}
	if changed {
		s.snap.Version++
	}
	return changed
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.copy()
}

func (sn Snapshot) copy() Snapshot {
	out := sn
	if sn.Coords != nil {
		coords := *sn.Coords
		out.Coords = &coords
	}
	return out
}
