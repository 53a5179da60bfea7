// Package automaton wraps a single leaf deterministic parity automaton from
// the external LTL-to-DPA translator, presenting it as a lookup function
// from (local state, letter) to a scored successor edge.
//
// Successors are computed lazily: an adapter has a private unbounded FIFO
// of query states, and a single background goroutine drains it, asks the
// translator, and publishes decision trees back into per-state slots.
// Lookup callers block on a condition variable until their slot is
// populated, mirroring the rendezvous poll.Set and the beam engine's
// consensus.Engine use between a request channel and a certificate channel.
package automaton

import (
	"sync"

	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
)

// ScoredEdge is a successor annotated with a heuristic (score, weight) used
// only by the arena frontier; it must never affect correctness.
type ScoredEdge struct {
	Successor int32
	Color     color.Color
	Score     float64
	Weight    float64
}

// decisionNode is one entry of a local-state's decision tree: either an
// internal bit test (Left/Right index into the same tree's node slice) or
// a leaf (EdgeIndex into the ScoredEdge vector).
type decisionNode struct {
	isLeaf    bool
	bitIndex  int
	left      int32
	right     int32
	edgeIndex int32
}

// successors holds either a decision tree over letter bits, or — once
// flattened — a direct-addressed table of ScoredEdge indices.
type successors struct {
	tree  []decisionNode
	edges []ScoredEdge

	flatTable []int32 // non-nil once flattened; indexed by full local letter
}

func (s *successors) lookup(alphabetSize int, l letter.Letter) ScoredEdge {
	if s.flatTable != nil {
		mask := uint64(1)<<uint(alphabetSize) - 1
		return s.edges[s.flatTable[uint64(l)&mask]]
	}
	idx := int32(0)
	for {
		node := s.tree[idx]
		if node.isLeaf {
			return s.edges[node.edgeIndex]
		}
		if l.Test(node.bitIndex) {
			idx = node.right
		} else {
			idx = node.left
		}
	}
}

// newSuccessorsFromTable builds a successors value out of a dense
// per-letter edge table. When the alphabet is small (arena threshold), the
// table is kept as a direct-addressed flat table; otherwise it is folded
// into a compact decision tree by recursive Shannon expansion on the
// letter bits, so large alphabets don't pay for a 2^n-entry table.
func newSuccessorsFromTable(table []ScoredEdge, alphabetSize int) *successors {
	s := &successors{edges: table}
	if alphabetSize <= flattenThreshold {
		flat := make([]int32, len(table))
		for i := range table {
			flat[i] = int32(i)
		}
		s.flatTable = flat
		return s
	}
	s.tree = buildDecisionTree(table, alphabetSize)
	return s
}

// buildDecisionTree folds a dense per-letter edge table into a minimal
// decision tree: a bit is only tested (and split into two subtrees) if the
// two halves of the remaining table differ; otherwise either half is
// reused directly, collapsing runs of "don't care" bits into a single
// leaf. This mirrors the "flat entries collapse when the underlying
// successor function doesn't depend on a bit" shortcut the adapter relies
// on to keep large-alphabet automata cheap.
func buildDecisionTree(table []ScoredEdge, alphabetSize int) []decisionNode {
	var nodes []decisionNode

	var build func(bit int, lo, hi int) int32
	build = func(bit int, lo, hi int) int32 {
		if bit < 0 || lo+1 == hi {
			idx := int32(len(nodes))
			nodes = append(nodes, decisionNode{isLeaf: true, edgeIndex: int32(lo)})
			return idx
		}
		half := (hi - lo) / 2
		same := true
		for i := 0; i < half; i++ {
			if table[lo+i] != table[lo+half+i] {
				same = false
				break
			}
		}
		if same {
			return build(bit-1, lo, lo+half)
		}
		idx := int32(len(nodes))
		nodes = append(nodes, decisionNode{})
		left := build(bit-1, lo, lo+half)
		right := build(bit-1, lo+half, hi)
		nodes[idx] = decisionNode{bitIndex: bit, left: left, right: right}
		return idx
	}
	build(alphabetSize-1, 0, len(table))
	return nodes
}

// Translator is the slice of the external LTL-to-DPA collaborator this
// adapter needs: given a local automaton state, return its successor
// function plus the node's color classification, discovered on the first
// query.
type Translator interface {
	// QuerySuccessors returns, for state, one ScoredEdge per local letter
	// (a dense table of length 2^alphabetSize) plus per-automaton metadata.
	QuerySuccessors(leafIndex int, state int32) (LeafQueryResult, error)
}

// LeafQueryResult is what the translator reports for one local state.
type LeafQueryResult struct {
	// PerLetter holds one ScoredEdge per local letter, dense and indexed by
	// the integer value of the (remapped) letter.
	PerLetter []ScoredEdge

	MaxColor     color.Color
	DefaultColor color.Color
	NodeType     NodeType
	Parity       color.Parity
	// UnknownType is true when the translator reported a type the adapter
	// does not recognize; the adapter then upgrades node_type to Parity.
	UnknownType bool
}

// NodeType classifies an automaton/tree node for LAR-size computation.
type NodeType int

const (
	Weak NodeType = iota
	Buchi
	CoBuchi
	ParityType
)

// JoinNodeType combines two child node types bottom-up: WEAK absorbs with
// WEAK, any PARITY makes the result PARITY, and BUCHI joined with CO_BUCHI
// also yields PARITY. The four node types are ordered so this is exactly
// a bitwise OR.
func JoinNodeType(a, b NodeType) NodeType { return a | b }

// JoinNodeTypeBiconditional is JoinNodeType specialized for a biconditional
// node: weak-on-weak stays WEAK, everything else becomes PARITY.
func JoinNodeTypeBiconditional(a, b NodeType) NodeType {
	if JoinNodeType(a, b) == Weak {
		return Weak
	}
	return ParityType
}

// Adapter is a per-leaf automaton wrapper with lazy, concurrent successor
// computation.
type Adapter struct {
	leafIndex    int
	alphabetSize int
	translator   Translator

	mu        sync.Mutex
	queryCond *sync.Cond // signaled when queries are enqueued / consumer progresses
	readyCond *sync.Cond // signaled when a slot's successors are committed

	queries []int32 // FIFO of pending query states
	queued  map[int32]bool
	slots   map[int32]*successors

	consumerStarted bool
	closed          bool

	// Metadata, fixed on the first query.
	metaSet      bool
	MaxColor     color.Color
	DefaultColor color.Color
	NodeType     NodeType
	Parity       color.Parity
}

// NewAdapter builds an adapter for one leaf automaton over the given
// translator. alphabetSize is the number of local (remapped) bits.
func NewAdapter(leafIndex, alphabetSize int, translator Translator) *Adapter {
	a := &Adapter{
		leafIndex:    leafIndex,
		alphabetSize: alphabetSize,
		translator:   translator,
		queued:       make(map[int32]bool),
		slots:        make(map[int32]*successors),
	}
	a.queryCond = sync.NewCond(&a.mu)
	a.readyCond = sync.NewCond(&a.mu)
	return a
}

// Start launches the single background consumer goroutine. Safe to call
// once; subsequent calls are no-ops.
func (a *Adapter) Start() {
	a.mu.Lock()
	if a.consumerStarted {
		a.mu.Unlock()
		return
	}
	a.consumerStarted = true
	a.mu.Unlock()
	go a.consume()
}

// Close stops the consumer loop, waking it if it is blocked waiting for
// work.
func (a *Adapter) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.queryCond.Broadcast()
}

func (a *Adapter) consume() {
	for {
		a.mu.Lock()
		for len(a.queries) == 0 && !a.closed {
			a.queryCond.Wait()
		}
		if a.closed && len(a.queries) == 0 {
			a.mu.Unlock()
			return
		}
		// Coalesce: drain every currently-queued state under one
		// acquisition before releasing the lock to query the translator.
		batch := a.queries
		a.queries = nil
		a.mu.Unlock()

		for _, state := range batch {
			result, err := a.translator.QuerySuccessors(a.leafIndex, state)
			s := newSuccessorsFromTable(result.PerLetter, a.alphabetSize)

			a.mu.Lock()
			if !a.metaSet {
				a.MaxColor = result.MaxColor
				a.DefaultColor = result.DefaultColor
				a.NodeType = result.NodeType
				a.Parity = result.Parity
				if result.UnknownType {
					a.NodeType = ParityType
				}
				a.metaSet = true
			}
			if err == nil {
				a.slots[state] = s
			}
			delete(a.queued, state)
			a.mu.Unlock()
		}
		a.mu.Lock()
		a.readyCond.Broadcast()
		a.mu.Unlock()
	}
}

// flattenThreshold is the alphabet-size cutoff (in bits) at or below which a
// decision tree is eagerly flattened into a direct-addressed table.
const flattenThreshold = 12

// Lookup returns the scored edge for (state, letter), enqueuing a query and
// blocking until the translator responds if state has not been queried
// before.
func (a *Adapter) Lookup(state int32, l letter.Letter) ScoredEdge {
	a.Start()

	a.mu.Lock()
	for {
		if s, ok := a.slots[state]; ok {
			a.mu.Unlock()
			return s.lookup(a.alphabetSize, l)
		}
		if !a.queued[state] {
			a.queued[state] = true
			a.queries = append(a.queries, state)
			a.queryCond.Signal()
		}
		a.readyCond.Wait()
	}
}

// HasSlot reports whether state's successors are already committed,
// without blocking — used by the arena to decide whether a lookup would
// stall the builder.
func (a *Adapter) HasSlot(state int32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.slots[state]
	return ok
}
