package dengraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizationAutomaton(t *testing.T) {
	a := buildCycle(t)
	g, err := NewDenominatorGraph(a, 3)
	require.Nil(t, err)

	norm, err := g.NormalizationAutomaton(a)
	require.Nil(t, err)

	t.Run("input untouched", func(t *testing.T) {
		assert.Equal(t, 3, a.NumStates())
		assert.Equal(t, 1.0, a.Final(0))
	})

	t.Run("super-initial start state", func(t *testing.T) {
		assert.Equal(t, 4, norm.NumStates())
		assert.Equal(t, 3, norm.Start())
	})

	t.Run("epsilon free and sorted", func(t *testing.T) {
		for s := 0; s < norm.NumStates(); s++ {
			arcs := norm.Arcs(s)
			assert.False(t, hasEpsilonArc(arcs))
			for i := 1; i < len(arcs); i++ {
				assert.LessOrEqual(t, arcs[i-1].Label, arcs[i].Label)
			}
		}
	})

	t.Run("original states final with zero weight", func(t *testing.T) {
		for s := 0; s < a.NumStates(); s++ {
			assert.Equal(t, 0.0, norm.Final(s))
		}
	})

	t.Run("start arcs carry initial probabilities", func(t *testing.T) {
		probs := g.InitialProbs()
		// After epsilon removal each start arc is some state's out-arc
		// with -log(initial prob) folded in.
		for _, arc := range norm.Arcs(norm.Start()) {
			matched := false
			for s, p := range probs {
				if p <= 0 {
					continue
				}
				for _, orig := range a.Arcs(s) {
					if orig.Label == arc.Label && orig.Dest == arc.Dest &&
						math.Abs(arc.Weight-(orig.Weight-math.Log(float64(p)))) < 1e-5 {
						matched = true
					}
				}
			}
			assert.True(t, matched, "unexpected start arc %+v", arc)
		}
		assert.NotEmpty(t, norm.Arcs(norm.Start()))
	})

	t.Run("state count mismatch", func(t *testing.T) {
		other := NewAutomaton()
		other.AddState()
		bad, err := g.NormalizationAutomaton(other)
		assert.NotNil(t, err)
		assert.Nil(t, bad)
	})
}
