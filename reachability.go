package dengraph

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// NumStatesThatCanReach Returns the number of states, including dest
// itself, from which dest is reachable via one or more arcs. Weights are
// ignored. The reverse adjacency is rebuilt per call; cost is O(V+E).
func NumStatesThatCanReach(a *Automaton, dest int) (int, error) {
	numStates := a.NumStates()
	if dest < 0 || dest >= numStates {
		return 0, fmt.Errorf("dengraph: destination state %d out of range [0,%d)", dest, numStates)
	}

	reverse := make([][]int, numStates)
	for s := 0; s < numStates; s++ {
		for _, arc := range a.Arcs(s) {
			reverse[arc.Dest] = append(reverse[arc.Dest], s)
		}
	}

	seen := bitset.New(uint(numStates))
	workList := make([]int, 0, numStates)
	seen.Set(uint(dest))
	workList = append(workList, dest)
	count := 1

	for len(workList) > 0 {
		state := workList[0]
		workList = workList[1:]
		for _, prev := range reverse[state] {
			if seen.Test(uint(prev)) == false {
				seen.Set(uint(prev))
				workList = append(workList, prev)
				count++
			}
		}
	}
	return count, nil
}
