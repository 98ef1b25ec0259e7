package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllerBegin_LostRace(t *testing.T) {
	t.Run("Should report success when the other attempt already succeeded", func(t *testing.T) {
		c := NewController(NewValidator(), nil, nil, nil, "")
		c.state.Store(int32(StateSucceeded))

		assert.ErrorIs(t, c.begin(), ErrAlreadySucceeded)
		assert.Equal(t, StateSucceeded, c.State())
	})

	t.Run("Should report in flight while the other attempt runs", func(t *testing.T) {
		c := NewController(NewValidator(), nil, nil, nil, "")
		c.state.Store(int32(StateSubmitting))

		assert.ErrorIs(t, c.begin(), ErrSubmissionInFlight)
	})

	t.Run("Should report in flight while a failure is being reported", func(t *testing.T) {
		c := NewController(NewValidator(), nil, nil, nil, "")
		c.state.Store(int32(StateFailed))

		assert.ErrorIs(t, c.begin(), ErrSubmissionInFlight)
	})

	t.Run("Should claim an idle controller", func(t *testing.T) {
		c := NewController(NewValidator(), nil, nil, nil, "")

		assert.NoError(t, c.begin())
		assert.Equal(t, StateSubmitting, c.State())
	})
}
