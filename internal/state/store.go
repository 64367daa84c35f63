package state

import (
	"sync"
	"time"
)

// EndpointState is the last-known status of one endpoint. The zero value is
// not used directly: unseen endpoints start as up so the first failure is a
// transition.
type EndpointState struct {
	LastUp      bool
	DownSince   *time.Time // most recent up->down transition; never cleared
	LastChecked time.Time
}

type Transition int

const (
	NoChange Transition = iota
	WentDown
	CameUp
)

func (t Transition) String() string {
	switch t {
	case WentDown:
		return "down"
	case CameUp:
		return "up"
	default:
		return "none"
	}
}

// Evaluation is what Evaluate decided. Downtime is only set for CameUp.
type Evaluation struct {
	Transition Transition
	Downtime   string
}

// Store holds per-endpoint state keyed by endpoint name. It is owned by the
// monitor loop; the mutex only guards against parallel probes in one cycle
// and read-only snapshots.
type Store struct {
	mu sync.Mutex
	m  map[string]*EndpointState
}

func NewStore() *Store {
	return &Store{m: make(map[string]*EndpointState)}
}

// Evaluate applies one probe outcome to the named endpoint and returns the
// resulting transition. State is fully updated before it returns.
func (s *Store) Evaluate(name string, reachable bool, now time.Time) Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.m[name]
	if st == nil {
		st = &EndpointState{LastUp: true}
		s.m[name] = st
	}

	var ev Evaluation
	wasUp := st.LastUp
	switch {
	case !reachable && wasUp:
		at := now
		st.DownSince = &at
		ev.Transition = WentDown
	case reachable && !wasUp:
		ev.Transition = CameUp
		if st.DownSince == nil {
			ev.Downtime = UnknownDowntime
		} else {
			ev.Downtime = FormatDowntime(now.Sub(*st.DownSince))
		}
	}

	st.LastUp = reachable
	st.LastChecked = now
	return ev
}

// Get returns a copy of the named endpoint's state.
func (s *Store) Get(name string) (EndpointState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[name]
	if !ok {
		return EndpointState{LastUp: true}, false
	}
	return copyState(st), true
}

// Snapshot copies every known endpoint's state.
func (s *Store) Snapshot() map[string]EndpointState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]EndpointState, len(s.m))
	for name, st := range s.m {
		out[name] = copyState(st)
	}
	return out
}

func copyState(st *EndpointState) EndpointState {
	c := *st
	if st.DownSince != nil {
		ds := *st.DownSince
		c.DownSince = &ds
	}
	return c
}
