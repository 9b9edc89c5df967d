package dengraph

import (
	"errors"
	"fmt"
	"math"
)

// Transition is one flattened arc of the denominator graph. State is the
// adjacent state: the destination for entries in a forward range, the
// source for entries in a backward range. Prob is the linear-domain
// transition probability exp(-weight).
type Transition struct {
	Unit  int32
	State int32
	Prob  float32
}

// Range is a half-open [Begin,End) span into the shared transition slice.
type Range struct {
	Begin int32
	End   int32
}

// DenominatorGraph is the flattened, read-only form of a finalized
// denominator automaton, used to normalize a sequence-level training
// criterion. All fields are computed once at construction; the object is
// safe to share across concurrent readers.
type DenominatorGraph struct {
	// One shared buffer: forward ranges of all states first, then the
	// backward ranges, both indexing into transitions.
	transitions []Transition
	forward     []Range
	backward    []Range

	initialProbs []float32
	specialState int
	numUnits     int
}

// NewDenominatorGraph Flatten the automaton's transitions, estimate the
// initial state occupancy, and select the special (renormalization anchor)
// state. The automaton must be epsilon-free with every label-1 in
// [0,numUnits), non-empty, and have a valid start state. Any violation
// aborts construction; no partial object is returned.
func NewDenominatorGraph(a *Automaton, numUnits int) (*DenominatorGraph, error) {
	if a == nil || a.NumStates() == 0 {
		return nil, errors.New("dengraph: empty automaton")
	}
	if start := a.Start(); start < 0 || start >= a.NumStates() {
		return nil, fmt.Errorf("dengraph: automaton has no valid start state (%d)", a.Start())
	}

	g := &DenominatorGraph{numUnits: numUnits}
	if err := g.setTransitions(a, numUnits); err != nil {
		return nil, err
	}

	initialProbs, err := estimateInitialProbs(a)
	if err != nil {
		return nil, err
	}
	g.initialProbs = initialProbs

	specialState, err := computeSpecialState(a, initialProbs)
	if err != nil {
		return nil, err
	}
	g.specialState = specialState
	return g, nil
}

// Builds the shared transition buffer and both offset tables. Every arc
// appears exactly twice: once in its source's forward range with the
// destination as adjacent state, once in its destination's backward range
// with the source as adjacent state.
func (g *DenominatorGraph) setTransitions(a *Automaton, numUnits int) error {
	numStates := a.NumStates()
	out := make([][]Transition, numStates)
	in := make([][]Transition, numStates)

	for s := 0; s < numStates; s++ {
		for _, arc := range a.Arcs(s) {
			unit := arc.Label - 1
			if unit < 0 || unit >= numUnits {
				return fmt.Errorf("dengraph: state %d has arc with unit %d outside [0,%d)", s, unit, numUnits)
			}
			prob := float32(math.Exp(-arc.Weight))
			out[s] = append(out[s], Transition{Unit: int32(unit), State: int32(arc.Dest), Prob: prob})
			in[arc.Dest] = append(in[arc.Dest], Transition{Unit: int32(unit), State: int32(s), Prob: prob})
		}
	}

	g.transitions = make([]Transition, 0, 2*a.NumArcs())
	g.forward = make([]Range, numStates)
	g.backward = make([]Range, numStates)
	for s := 0; s < numStates; s++ {
		g.forward[s].Begin = int32(len(g.transitions))
		g.transitions = append(g.transitions, out[s]...)
		g.forward[s].End = int32(len(g.transitions))
	}
	for s := 0; s < numStates; s++ {
		g.backward[s].Begin = int32(len(g.transitions))
		g.transitions = append(g.transitions, in[s]...)
		g.backward[s].End = int32(len(g.transitions))
	}
	return nil
}

// Transitions Returns the shared flat transition buffer.
func (g *DenominatorGraph) Transitions() []Transition {
	return g.transitions
}

// ForwardTransitions Returns one range per state spanning its outgoing
// transitions in the shared buffer.
func (g *DenominatorGraph) ForwardTransitions() []Range {
	return g.forward
}

// BackwardTransitions Returns one range per state spanning its incoming
// transitions in the shared buffer.
func (g *DenominatorGraph) BackwardTransitions() []Range {
	return g.backward
}

// ForwardArcs Returns the flattened out-transitions of a state.
func (g *DenominatorGraph) ForwardArcs(state int) []Transition {
	r := g.forward[state]
	return g.transitions[r.Begin:r.End]
}

// BackwardArcs Returns the flattened in-transitions of a state; each
// entry's State field is the arc's source.
func (g *DenominatorGraph) BackwardArcs(state int) []Transition {
	r := g.backward[state]
	return g.transitions[r.Begin:r.End]
}

// InitialProbs Returns the smoothed initial-occupancy distribution, one
// entry per state, summing to one.
func (g *DenominatorGraph) InitialProbs() []float32 {
	return g.initialProbs
}

// SpecialState Returns the renormalization anchor state, reachable from at
// least three quarters of all states.
func (g *DenominatorGraph) SpecialState() int {
	return g.specialState
}

func (g *DenominatorGraph) NumStates() int {
	return len(g.forward)
}

func (g *DenominatorGraph) NumUnits() int {
	return g.numUnits
}
