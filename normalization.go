package dengraph

import (
	"fmt"
	"math"
)

// NormalizationAutomaton Decorates the probability-weighted automaton the
// graph was built from into a normalization automaton for computing
// sequence-level normalizers outside the forward-backward core: a new
// super-initial state gets an arc into every state weighted by that
// state's initial probability (negative-log domain), every original state
// becomes final with weight zero, epsilons are removed and arcs sorted by
// label. The input must have the same state count the graph was built
// with; it is not modified.
func (g *DenominatorGraph) NormalizationAutomaton(a *Automaton) (*Automaton, error) {
	if a.NumStates() != len(g.initialProbs) {
		return nil, fmt.Errorf("dengraph: automaton has %d states, graph was built with %d", a.NumStates(), len(g.initialProbs))
	}

	out := a.Copy()
	super := out.AddState()
	for s, p := range g.initialProbs {
		if err := out.SetFinal(s, 0); err != nil {
			return nil, err
		}
		if p <= 0 {
			// Unreachable under the initial distribution; an arc would
			// carry infinite weight and no mass.
			continue
		}
		if err := out.AddArc(super, Arc{Label: Epsilon, Dest: s, Weight: -math.Log(float64(p))}); err != nil {
			return nil, err
		}
	}
	if err := out.SetStart(super); err != nil {
		return nil, err
	}
	out.RemoveEpsilons()
	out.SortArcs()
	return out, nil
}
