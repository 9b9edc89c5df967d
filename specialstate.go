package dengraph

import (
	"fmt"
	"log/slog"
	"sort"
)

// minReachFraction is the fraction of all states that must be able to
// reach a candidate before it can serve as the renormalization anchor.
// The value is pretty arbitrary: in practice states are reachable by
// almost all states or almost none, so it shouldn't be critical.
const minReachFraction = 0.75

// computeSpecialState Picks the anchor state for renormalization during
// forward-backward: the state with the highest initial probability among
// those reachable from at least minReachFraction of all states. Candidates
// failing the reachability cutoff are logged and skipped; if every state
// fails, the automaton is too fragmented and an error is returned.
func computeSpecialState(a *Automaton, initialProbs []float32) (int, error) {
	numStates := len(initialProbs)
	candidates := make([]int, numStates)
	for i := range candidates {
		candidates[i] = i
	}
	// Highest initial probability first; ties break on the lower state
	// index so selection is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := candidates[i], candidates[j]
		if initialProbs[si] != initialProbs[sj] {
			return initialProbs[si] > initialProbs[sj]
		}
		return si < sj
	})

	minReach := minReachFraction * float64(numStates)
	for _, state := range candidates {
		n, err := NumStatesThatCanReach(a, state)
		if err != nil {
			return -1, err
		}
		if float64(n) < minReach {
			slog.Warn("rejecting state as renormalization anchor: not broadly reachable",
				"state", state, "reachableFrom", n, "numStates", numStates)
			continue
		}
		return state, nil
	}
	return -1, fmt.Errorf("dengraph: no state is reachable from at least %.0f of %d states; automaton is too fragmented", minReach, numStates)
}
