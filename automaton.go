package dengraph

import (
	"fmt"
	"math"
	"sort"
)

// Epsilon is the reserved arc label for epsilon transitions. Labels on a
// finalized automaton handed to NewDenominatorGraph must all be greater
// than Epsilon; label-1 is the output-unit (pdf) index.
const Epsilon = 0

// Arc is a weighted transition leaving a state. Weight is in negative-log
// domain, so weight 0 means probability 1.
type Arc struct {
	Label  int
	Dest   int
	Weight float64
}

// Automaton is a weighted acceptor whose states are dense integers created
// with AddState. The start state is set explicitly with SetStart; a state
// with a finite final weight is a final state. There is no epsilon-free or
// stochasticity requirement on the container itself; those contracts are
// checked by the operations that need them.
type Automaton struct {
	arcs  [][]Arc
	final []float64
	start int
}

func NewAutomaton() *Automaton {
	return &Automaton{start: -1}
}

// AddState Create a new state and return its index. The state starts with
// no arcs and an infinite final weight (i.e. not final).
func (a *Automaton) AddState() int {
	state := len(a.arcs)
	a.arcs = append(a.arcs, nil)
	a.final = append(a.final, math.Inf(1))
	return state
}

// AddArc Add an out-arc to the given state. Both endpoints must already
// exist and the label must not be negative.
func (a *Automaton) AddArc(state int, arc Arc) error {
	if state < 0 || state >= len(a.arcs) {
		return fmt.Errorf("dengraph: arc source state %d out of range [0,%d)", state, len(a.arcs))
	}
	if arc.Dest < 0 || arc.Dest >= len(a.arcs) {
		return fmt.Errorf("dengraph: arc destination state %d out of range [0,%d)", arc.Dest, len(a.arcs))
	}
	if arc.Label < Epsilon {
		return fmt.Errorf("dengraph: arc label %d is negative", arc.Label)
	}
	a.arcs[state] = append(a.arcs[state], arc)
	return nil
}

// SetStart Designate the start state.
func (a *Automaton) SetStart(state int) error {
	if state < 0 || state >= len(a.arcs) {
		return fmt.Errorf("dengraph: start state %d out of range [0,%d)", state, len(a.arcs))
	}
	a.start = state
	return nil
}

// SetFinal Set the final weight (negative-log domain) of a state. Use
// math.Inf(1) to mark a state as not final.
func (a *Automaton) SetFinal(state int, weight float64) error {
	if state < 0 || state >= len(a.arcs) {
		return fmt.Errorf("dengraph: final state %d out of range [0,%d)", state, len(a.arcs))
	}
	a.final[state] = weight
	return nil
}

// Start Returns the start state, or -1 if none has been set.
func (a *Automaton) Start() int {
	return a.start
}

// Final Returns the final weight of a state; math.Inf(1) means not final.
func (a *Automaton) Final(state int) float64 {
	return a.final[state]
}

func (a *Automaton) NumStates() int {
	return len(a.arcs)
}

// NumArcs Returns the total arc count over all states.
func (a *Automaton) NumArcs() int {
	n := 0
	for _, arcs := range a.arcs {
		n += len(arcs)
	}
	return n
}

// Arcs Returns the out-arcs of a state. The returned slice is owned by the
// automaton; callers must not modify it.
func (a *Automaton) Arcs(state int) []Arc {
	return a.arcs[state]
}

// Copy Returns a deep copy sharing no storage with the receiver.
func (a *Automaton) Copy() *Automaton {
	out := &Automaton{
		arcs:  make([][]Arc, len(a.arcs)),
		final: make([]float64, len(a.final)),
		start: a.start,
	}
	copy(out.final, a.final)
	for s, arcs := range a.arcs {
		out.arcs[s] = append([]Arc(nil), arcs...)
	}
	return out
}

// Relabel Map every non-epsilon arc label through the given function, in
// place. Epsilon labels pass through unchanged. Mapping a label to a
// negative value is an error and leaves the automaton partially relabeled.
func (a *Automaton) Relabel(mapping func(label int) int) error {
	for s, arcs := range a.arcs {
		for i, arc := range arcs {
			if arc.Label == Epsilon {
				continue
			}
			mapped := mapping(arc.Label)
			if mapped < Epsilon {
				return fmt.Errorf("dengraph: relabel mapped %d to negative label %d (state %d)", arc.Label, mapped, s)
			}
			a.arcs[s][i].Label = mapped
		}
	}
	return nil
}

// RemoveEpsilons Fold epsilon arcs into their epsilon closure, in place.
// Every path that used to start with one or more epsilon arcs is replaced
// by a direct arc carrying the summed negative-log weight; final weights
// reachable through epsilons are pulled back the same way. Parallel arcs
// with equal label and destination are combined by taking the minimum
// weight (tropical sum).
func (a *Automaton) RemoveEpsilons() {
	for s := range a.arcs {
		if !hasEpsilonArc(a.arcs[s]) {
			continue
		}
		closure := a.epsilonClosure(s)

		kept := make([]Arc, 0, len(a.arcs[s]))
		for _, arc := range a.arcs[s] {
			if arc.Label != Epsilon {
				kept = append(kept, arc)
			}
		}
		for t, dist := range closure {
			if a.final[t]+dist < a.final[s] {
				a.final[s] = a.final[t] + dist
			}
			for _, arc := range a.arcs[t] {
				if arc.Label == Epsilon {
					continue
				}
				kept = append(kept, Arc{Label: arc.Label, Dest: arc.Dest, Weight: arc.Weight + dist})
			}
		}
		a.arcs[s] = combineParallel(kept)
	}
}

func hasEpsilonArc(arcs []Arc) bool {
	for _, arc := range arcs {
		if arc.Label == Epsilon {
			return true
		}
	}
	return false
}

// Returns the states reachable from s through one or more epsilon arcs,
// mapped to their shortest epsilon distance. s itself is excluded.
func (a *Automaton) epsilonClosure(s int) map[int]float64 {
	dist := make(map[int]float64)
	var queue []int
	for _, arc := range a.arcs[s] {
		if arc.Label != Epsilon || arc.Dest == s {
			continue
		}
		if old, ok := dist[arc.Dest]; !ok || arc.Weight < old {
			dist[arc.Dest] = arc.Weight
			queue = append(queue, arc.Dest)
		}
	}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, arc := range a.arcs[t] {
			if arc.Label != Epsilon || arc.Dest == s {
				continue
			}
			next := dist[t] + arc.Weight
			if old, ok := dist[arc.Dest]; !ok || next < old {
				dist[arc.Dest] = next
				queue = append(queue, arc.Dest)
			}
		}
	}
	return dist
}

func combineParallel(arcs []Arc) []Arc {
	if len(arcs) < 2 {
		return arcs
	}
	type endpoint struct {
		label, dest int
	}
	best := make(map[endpoint]int, len(arcs))
	out := arcs[:0]
	for _, arc := range arcs {
		key := endpoint{arc.Label, arc.Dest}
		if i, ok := best[key]; ok {
			if arc.Weight < out[i].Weight {
				out[i].Weight = arc.Weight
			}
			continue
		}
		best[key] = len(out)
		out = append(out, arc)
	}
	return out
}

// SortArcs Sort every state's out-arcs by label, then destination, then
// weight, in place.
func (a *Automaton) SortArcs() {
	for s := range a.arcs {
		arcs := a.arcs[s]
		sort.Slice(arcs, func(i, j int) bool {
			if arcs[i].Label != arcs[j].Label {
				return arcs[i].Label < arcs[j].Label
			}
			if arcs[i].Dest != arcs[j].Dest {
				return arcs[i].Dest < arcs[j].Dest
			}
			return arcs[i].Weight < arcs[j].Weight
		})
	}
}
