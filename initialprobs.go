package dengraph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// numPropagationIters is the fixed propagation horizon over which the
	// occupancy distribution is averaged. The initial probs won't end up
	// making a huge difference downstream, so the exact value isn't
	// critical.
	numPropagationIters = 100

	// maxStateOutMass is a sanity bound on a state's total outgoing
	// probability mass (final mass plus arc mass, linear domain).
	maxStateOutMass = 100.0
)

// estimateInitialProbs Runs numPropagationIters steps of occupancy
// propagation from the start state and returns the time-averaged
// distribution. The automaton's weights need not be locally normalized:
// each state's mass is divided by its total outgoing mass before
// propagation, and the whole vector is renormalized each step to
// compensate for mass lost to final weights.
func estimateInitialProbs(a *Automaton) ([]float32, error) {
	numStates := a.NumStates()

	normalizer := make([]float64, numStates)
	for s := 0; s < numStates; s++ {
		tot := math.Exp(-a.Final(s))
		for _, arc := range a.Arcs(s) {
			tot += math.Exp(-arc.Weight)
		}
		if !(tot > 0 && tot < maxStateOutMass) {
			return nil, fmt.Errorf("dengraph: state %d has implausible total outgoing mass %g (want (0,%g))", s, tot, float64(maxStateOutMass))
		}
		normalizer[s] = 1.0 / tot
	}

	cur := make([]float64, numStates)
	next := make([]float64, numStates)
	avg := make([]float64, numStates)
	cur[a.Start()] = 1.0

	for iter := 0; iter < numPropagationIters; iter++ {
		for s := 0; s < numStates; s++ {
			prob := cur[s] * normalizer[s]
			for _, arc := range a.Arcs(s) {
				next[arc.Dest] += prob * math.Exp(-arc.Weight)
			}
		}
		if sum := floats.Sum(next); sum > 0 {
			cur, next = next, cur
			for i := range next {
				next[i] = 0
			}
			// The per-state normalization above includes final mass, so
			// the propagated vector sums to less than one; renormalize.
			floats.Scale(1.0/sum, cur)
		} else {
			// No arc carried any mass (e.g. a lone start state with no
			// out-arcs); keep the previous distribution.
			for i := range next {
				next[i] = 0
			}
		}
		floats.AddScaled(avg, 1.0/numPropagationIters, cur)
	}

	initialProbs := make([]float32, numStates)
	for i, p := range avg {
		initialProbs[i] = float32(p)
	}
	return initialProbs, nil
}
