package editor_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/kiosk/internal/editor"
)

func TestSession_SerializesRequests(t *testing.T) {
	var s editor.Session

	ticket, err := s.Begin()
	assert.NilError(t, err)
	assert.Assert(t, ticket.ID != "")
	assert.Assert(t, s.InFlight())

	_, err = s.Begin()
	assert.ErrorIs(t, err, editor.ErrRequestInFlight)

	assert.Assert(t, s.Finish(ticket))
	assert.Assert(t, !s.InFlight())

	_, err = s.Begin()
	assert.NilError(t, err)
}

func TestSession_StaleResponseIsDiscarded(t *testing.T) {
	var s editor.Session

	ticket, err := s.Begin()
	assert.NilError(t, err)

	s.Invalidate()

	assert.Assert(t, !s.Finish(ticket), "response from an older generation is stale")
	assert.Assert(t, !s.InFlight())

	fresh, err := s.Begin()
	assert.NilError(t, err)
	assert.Equal(t, fresh.Generation, s.Generation())
	assert.Assert(t, s.Finish(fresh))
}
