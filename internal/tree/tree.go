// Package tree implements the decomposed-automaton product tree: boolean
// connectives (conjunction, disjunction, biconditional) over leaf
// deterministic parity automata, combined on the fly into a single parity
// objective as described in spec.md §4.2 and grounded on
// original_source/src/aut/ParityAutomatonTree*.cc.
package tree

import (
	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/pstate"
)

// Tag names an inner node's boolean connective.
type Tag int

const (
	Conjunction Tag = iota
	Disjunction
	Biconditional
)

// ColorScore is the successor annotation threaded up through the tree:
// the emitted color plus the heuristic (score, weight) pair.
type ColorScore struct {
	Color  color.Color
	Score  float64
	Weight float64
}

// Node is one node of the automaton tree: a leaf wraps an adapter, an
// inner node combines its children under Tag.
type Node struct {
	Tag      Tag // meaningless for leaves
	IsLeaf   bool
	NodeType automaton.NodeType
	Parity   color.Parity
	MaxColor color.Color

	// Leaf-only fields.
	Adapter      *automaton.Adapter
	AlphabetMap  []int // global proposition bit -> local automaton bit, -1 if absent
	AlphabetSize int

	// Inner-node-only fields.
	Children       []*Node
	RoundRobinSize int  // number of Büchi/co-Büchi children visited round-robin
	ParityChild    bool // whether a min-parity-seen counter is tracked
	ParityChildIdx int  // biconditional only: which child (0 or 1) is the parity child
	DP             color.Color // parity child's max_color (conjunction/disjunction: +1 if its parity differs); start value of the min-parity counters
	d1, d2         color.Color // biconditional parity arithmetic constants

	// stateIndex is the statically-computed slot offset for this node's
	// identity slot, filled in by AssignSlots. For a leaf this holds the
	// local automaton state (or a Top/Bottom/None marker); for an inner
	// node it is None while the node is undecided and Top/Bottom once
	// isTopState/isBottomState has fired for it, which keeps those checks
	// O(1) at any node including the root — see DESIGN.md for why this
	// deviates from the original's slot-aliasing trick.
	stateIndex int
	// counterIndex is where this inner node's own LAR/round-robin
	// counters begin (immediately after stateIndex).
	counterIndex int
}

// AssignSlots walks the tree pre-order (matching the original's
// getInitialState) assigning each node its identity slot and LAR counter
// slots, and appending the slots it owns to width.
func (n *Node) AssignSlots(width *int) {
	n.stateIndex = *width
	*width++
	n.counterIndex = *width
	if n.IsLeaf {
		return
	}
	if n.Tag == Biconditional {
		*width += n.RoundRobinSize
	} else {
		if n.RoundRobinSize > 1 {
			*width++
		}
		if n.RoundRobinSize > 0 && n.ParityChild {
			*width++
		}
	}
	for _, c := range n.Children {
		c.AssignSlots(width)
	}
}

// isTop reports whether this node's identity slot marks it globally
// accepting.
func (n *Node) isTop(state pstate.State) bool {
	return state[n.stateIndex] == pstate.Top
}

// isBottom reports whether this node's identity slot marks it globally
// rejecting.
func (n *Node) isBottom(state pstate.State) bool {
	return state[n.stateIndex] == pstate.Bottom
}

// IsTopState reports whether state is the tree's globally accepting sink,
// an O(1) read of the root's own identity slot. Used by the arena builder
// to route a freshly-computed successor to the shared top-node reference.
func (n *Node) IsTopState(state pstate.State) bool {
	return n.isTop(state)
}

// IsBottomState reports whether state is the tree's globally rejecting
// sink, dropped by the arena builder rather than materialized as an edge.
func (n *Node) IsBottomState(state pstate.State) bool {
	return n.isBottom(state)
}

// Width returns the product-state slot width of the tree rooted at n,
// without allocating a state vector (InitialState does both).
func (n *Node) Width() int {
	width := 0
	n.AssignSlots(&width)
	return width
}

// paint marks the whole subtree rooted at n as decided: its own identity
// slot becomes marker, its counters and descendants become don't-care
// (NoneTop/NoneBottom).
func (n *Node) paint(newState pstate.State, marker, dontCare pstate.Slot) {
	newState[n.stateIndex] = marker
	if n.IsLeaf {
		return
	}
	width := n.counterIndex
	if n.Tag == Biconditional {
		for i := 0; i < n.RoundRobinSize; i++ {
			newState[width] = dontCare
			width++
		}
	} else {
		if n.RoundRobinSize > 1 {
			newState[width] = dontCare
			width++
		}
		if n.RoundRobinSize > 0 && n.ParityChild {
			newState[width] = dontCare
			width++
		}
	}
	for _, c := range n.Children {
		c.paintDontCare(newState, dontCare)
	}
}

// paintDontCare marks a subtree as don't-care without touching its own
// decided/undecided identity — used for children of a node that just
// decided, whose own state no longer matters.
func (n *Node) paintDontCare(newState pstate.State, dontCare pstate.Slot) {
	newState[n.stateIndex] = dontCare
	if n.IsLeaf {
		return
	}
	width := n.counterIndex
	if n.Tag == Biconditional {
		for i := 0; i < n.RoundRobinSize; i++ {
			newState[width] = dontCare
			width++
		}
	} else {
		if n.RoundRobinSize > 1 {
			newState[width] = dontCare
			width++
		}
		if n.RoundRobinSize > 0 && n.ParityChild {
			newState[width] = dontCare
			width++
		}
	}
	for _, c := range n.Children {
		c.paintDontCare(newState, dontCare)
	}
}

// InitialState returns the all-zero initial product state of the correct
// width for the whole tree rooted at n.
func (n *Node) InitialState() pstate.State {
	width := 0
	n.AssignSlots(&width)
	return make(pstate.State, width)
}

// Successor computes the successor product state and the node's emitted
// (color, score, weight) for a global letter, dispatching on node shape.
func (n *Node) Successor(state pstate.State, newState pstate.State, l letter.Letter) ColorScore {
	if n.IsLeaf {
		return n.leafSuccessor(state, newState, l)
	}
	if n.Tag == Biconditional {
		return n.biconditionalSuccessor(state, newState, l)
	}
	return n.innerSuccessor(state, newState, l)
}

func (n *Node) leafSuccessor(state, newState pstate.State, l letter.Letter) ColorScore {
	cur := state[n.stateIndex]
	switch cur {
	case pstate.Top:
		newState[n.stateIndex] = pstate.Top
		return ColorScore{color.Color(n.Parity), 1.0, 1.0}
	case pstate.Bottom:
		newState[n.stateIndex] = pstate.Bottom
		return ColorScore{color.Color(n.Parity.Dual()), 0.0, 1.0}
	}

	local := remapLetter(l, n.AlphabetMap)
	edge := n.Adapter.Lookup(int32(cur), local)
	newState[n.stateIndex] = pstate.Slot(edge.Successor)
	return ColorScore{edge.Color, edge.Score, edge.Weight}
}

// remapLetter projects a global letter onto a leaf's local alphabet: global
// bit g becomes local bit alphabetMap[g]; bits mapped to -1 are dropped.
func remapLetter(l letter.Letter, alphabetMap []int) letter.Letter {
	var local letter.Letter
	for g, lb := range alphabetMap {
		if lb >= 0 && l.Test(g) {
			local = local.With(lb, true)
		}
	}
	return local
}
