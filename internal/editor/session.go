package editor

import (
	"errors"

	"github.com/nikbrunner/kiosk/internal/model"
)

// ErrRequestInFlight means a load or save is already outstanding.
var ErrRequestInFlight = errors.New("request already in flight")

// Ticket identifies one load or save request.
type Ticket struct {
	ID         string
	Generation uint64
}

// Session serializes persistence requests and detects stale responses. A
// response is stale when Invalidate ran after its request began.
type Session struct {
	generation uint64
	inFlight   bool
	current    Ticket
}

// Begin starts a request.
func (s *Session) Begin() (Ticket, error) {
	if s.inFlight {
		return Ticket{}, ErrRequestInFlight
	}
	s.inFlight = true
	s.current = Ticket{ID: model.GenerateUUID(), Generation: s.generation}
	return s.current, nil
}

// Finish ends a request and reports whether its result should be applied.
func (s *Session) Finish(t Ticket) bool {
	if s.inFlight && t.ID == s.current.ID {
		s.inFlight = false
	}
	return t.Generation == s.generation
}

// Invalidate makes every outstanding request stale.
func (s *Session) Invalidate() {
	s.generation++
}

// InFlight reports whether a request is outstanding.
func (s *Session) InFlight() bool {
	return s.inFlight
}

// Generation returns the current generation.
func (s *Session) Generation() uint64 {
	return s.generation
}
