package popup

import (
	"sync"
	"time"

	"github.com/pfrederiksen/gora-search/internal/render"
)

// SuccessTTL is how long a success message stays visible.
const SuccessTTL = 3 * time.Second

// Status holds the single message currently shown. Showing a message
// replaces the previous one. Success messages expire after SuccessTTL;
// others stay until replaced or cleared.
type Status struct {
	mu      sync.Mutex
	message string
	level   render.StatusLevel
	shownAt time.Time
	now     func() time.Time
}

// NewStatus creates an empty status line.
func NewStatus() *Status {
	return &Status{now: time.Now}
}

// Show replaces the current message.
func (s *Status) Show(message string, level render.StatusLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.level = level
	s.shownAt = s.now()
}

// Clear removes the current message.
func (s *Status) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = ""
	s.level = ""
}

// Current returns the visible message; ok is false when nothing is shown.
func (s *Status) Current() (message string, level render.StatusLevel, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.message == "" {
		return "", "", false
	}
	if s.level == render.StatusSuccess && s.now().Sub(s.shownAt) >= SuccessTTL {
		s.message = ""
		s.level = ""
		return "", "", false
	}
	return s.message, s.level, true
}

// apply mirrors the status onto page.
func (s *Status) apply(page *render.Page) {
	if msg, level, ok := s.Current(); ok {
		page.ShowStatus(msg, level)
		return
	}
	page.ClearStatus()
}
