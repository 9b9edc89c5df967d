package dengraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumStatesThatCanReach(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		a := NewAutomaton()
		for i := 0; i < 3; i++ {
			a.AddState()
		}
		require.Nil(t, a.AddArc(0, Arc{Label: 1, Dest: 1}))
		require.Nil(t, a.AddArc(1, Arc{Label: 1, Dest: 2}))

		for dest, want := range []int{1, 2, 3} {
			n, err := NumStatesThatCanReach(a, dest)
			assert.Nil(t, err)
			assert.Equal(t, want, n)
		}
	})

	t.Run("strongly connected", func(t *testing.T) {
		a := buildCycle(t)
		for dest := 0; dest < a.NumStates(); dest++ {
			n, err := NumStatesThatCanReach(a, dest)
			assert.Nil(t, err)
			assert.Equal(t, a.NumStates(), n)
		}
	})

	t.Run("bounds", func(t *testing.T) {
		a := buildCycle(t)
		for dest := 0; dest < a.NumStates(); dest++ {
			n, err := NumStatesThatCanReach(a, dest)
			require.Nil(t, err)
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, a.NumStates())
		}
	})

	t.Run("destination out of range", func(t *testing.T) {
		a := buildCycle(t)
		_, err := NumStatesThatCanReach(a, -1)
		assert.NotNil(t, err)
		_, err = NumStatesThatCanReach(a, a.NumStates())
		assert.NotNil(t, err)
	})
}
