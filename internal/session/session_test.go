package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	t.Run("starts empty with an id", func(t *testing.T) {
		s := New()
		assert.NotEmpty(t, s.ID())
		assert.Zero(t, s.Len())
		assert.Empty(t, s.Turns())
	})

	t.Run("two exchanges yield four alternating entries", func(t *testing.T) {
		s := New()
		s.Record("q1", "a1")
		s.Record("q2", "a2")

		turns := s.Turns()
		require.Len(t, turns, 4)
		assert.Equal(t, Turn{Role: RoleUser, Text: "q1"}, turns[0])
		assert.Equal(t, Turn{Role: RoleAssistant, Text: "a1"}, turns[1])
		assert.Equal(t, Turn{Role: RoleUser, Text: "q2"}, turns[2])
		assert.Equal(t, Turn{Role: RoleAssistant, Text: "a2"}, turns[3])
	})

	t.Run("turns is a copy", func(t *testing.T) {
		s := New()
		s.Record("q", "a")

		turns := s.Turns()
		turns[0].Text = "mutated"
		assert.Equal(t, "q", s.Turns()[0].Text)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		a, b := New(), New()
		a.Record("q", "a")
		assert.NotEqual(t, a.ID(), b.ID())
		assert.Zero(t, b.Len())
	})
}
