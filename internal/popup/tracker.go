package popup

import (
	"sync"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/render"
)

// State is where one course's detail fetch stands.
type State int

const (
	Unfetched State = iota
	Fetching
	Fetched
	FetchFailed
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Fetched:
		return "fetched"
	case FetchFailed:
		return "failed"
	default:
		return "unfetched"
	}
}

// Trigger is the button state that shows s.
func (s State) Trigger() render.TriggerState {
	switch s {
	case Fetching:
		return render.TriggerFetching
	case Fetched:
		return render.TriggerDone
	case FetchFailed:
		return render.TriggerFailed
	default:
		return render.TriggerIdle
	}
}

// Tracker records detail fetch state per course id. A course leaves
// Unfetched exactly once, so each rendered course is fetched at most once.
// Fetched and FetchFailed are terminal until Reset.
type Tracker struct {
	mu     sync.Mutex
	states map[string]State
}

// NewTracker creates a tracker with every course unfetched.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]State)}
}

// State returns the state for id.
func (t *Tracker) State(id string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[gora.NormalizeCourseID(id)]
}

// Begin moves id from Unfetched to Fetching. It reports false, changing
// nothing, from any other state.
func (t *Tracker) Begin(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	id = gora.NormalizeCourseID(id)
	if t.states[id] != Unfetched {
		return false
	}
	t.states[id] = Fetching
	return true
}

// Finish moves id from Fetching to Fetched or FetchFailed and returns the
// new state. Ids that are not fetching are left alone.
func (t *Tracker) Finish(id string, ok bool) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	id = gora.NormalizeCourseID(id)
	if t.states[id] != Fetching {
		return t.states[id]
	}
	if ok {
		t.states[id] = Fetched
	} else {
		t.states[id] = FetchFailed
	}
	return t.states[id]
}

// Reset forgets every course, for a new result list.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[string]State)
}
