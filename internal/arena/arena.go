// Package arena implements the on-the-fly bipartite parity-game arena
// described in spec.md §3/§4.3: environment nodes (product states with an
// input letter pending) and system nodes (intermediate, one per relevant
// input action), explored lazily from an automaton tree and consumed
// concurrently by the parity-game solver.
//
// The locking discipline mirrors original_source/src/pg/PGArena.h: a
// resize lock the builder holds only around slice appends, and a short
// size lock plus a condition variable the builder signals after each
// env-node is finalized, which the solver waits on when it has caught up.
package arena

import (
	"sync"

	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/pstate"
	"github.com/tp971/strix/internal/tree"
)

// NodeRef is a reference to either a real env-node id (>= 0) or one of
// the two absorbing sentinels, used wherever a sys-edge names its
// successor.
type NodeRef int32

const (
	// Top is the shared globally-accepting sink.
	Top NodeRef = -1
	// Bottom is the shared globally-rejecting sink; edges to it are
	// dropped rather than materialized, per spec.md §4.3.
	Bottom NodeRef = -2
)

// unexploredSuccsBegin marks an EnvNode row that has been reserved (its
// product state interned, its id fixed) but not yet popped off the
// frontier and explored — the "UNEXPLORED" phase of spec.md §3's
// lifecycle, collapsed here into the same slice as "EXPLORED" since this
// repo assigns the env-node id at intern time rather than at explore
// time (see DESIGN.md).
const unexploredSuccsBegin int32 = -1

// Winner names which player has been proven to win a node, or that the
// node remains undecided.
type Winner int8

const (
	UndecidedWinner Winner = iota
	SysPlayer
	EnvPlayer
)

// EnvEdge is one outgoing edge of an env-node: a relevant input action
// leading to a system node, labelled with the BDD over input propositions
// that chooses this action (don't-care bits folded in).
type EnvEdge struct {
	SysNode int32
	BDD     bdd.Node
}

// EnvNode is one environment-player decision node: a canonical product
// state with a set of outgoing system-node children. SuccsBegin/NumSuccs
// are recorded explicitly rather than inferred from the next node's
// offset, since nodes are explored in frontier-pop order, not id order,
// so Arena.envSuccs is not contiguous by node id.
type EnvNode struct {
	State        pstate.State
	SuccsBegin   int32 // offset into Arena.envSuccs; unexploredSuccsBegin if not yet explored
	NumSuccs     int32
	Winner       Winner
	Reachable    bool
	ProductLabel int64 // packed bit-vector label, -1 if not computed/overflowed

	// Strategy is the sys-node id the environment-player strategy
	// commits to at this node, or -1 if undecided. Unlike the system
	// player's (possibly non-deterministic) active-edge set, the
	// original keeps this as a single persistent choice across repeated
	// solve attempts (PGSISolver's env_successors, resized but never
	// cleared); mirrored here as arena state rather than solver-local
	// scratch so the strategy extractor can read it after Solved().
	Strategy int32
}

// SysEdge is one outgoing edge of a sys-node: a relevant output action
// leading to an env-node (or the Top sentinel; Bottom edges are never
// materialized), labelled with its color and the BDD over output
// propositions that choose this action.
type SysEdge struct {
	Successor NodeRef
	Color     color.Color
	BDD       bdd.Node
	Active    bool // set by the solver's strategy-improvement pass
}

// SysNode is one system-player intermediate node: the set of outgoing
// edges reached for one (env-node, input action) pair, canonicalized by
// hashing so structurally identical sys-nodes are shared.
type SysNode struct {
	SuccsBegin int32 // offset into Arena.sysSuccs
	NumSuccs   int32
	Winner     Winner
}

// Verdict is one message on the winning-verdict channel: node names the
// env-node id, winner the player now proven to win it.
type Verdict struct {
	EnvNode int32
	Winner  Winner
}

// Arena is the shared bipartite parity game under construction. All
// cross-references are integer ids into the flat slices below, never
// pointers, so the solver's data-parallel passes stay cache-friendly and
// free of cyclic ownership (spec.md §9).
type Arena struct {
	Root       *tree.Node
	InputMask  letter.Mask
	OutputMask letter.Mask
	InputBDD   *bdd.Manager
	OutputBDD  *bdd.Manager

	// resizeMu is taken by the builder only around an append that may
	// reallocate a backing array, and as a read lock by the solver for
	// the duration of one full pass over the arena — compatible because
	// the builder never mutates an already-written entry.
	resizeMu sync.RWMutex

	envNodes []EnvNode
	envSuccs []EnvEdge
	sysNodes []SysNode
	sysSuccs []SysEdge

	// sizeMu/sizeCond guard the node counts and are notified once per
	// finalized env-node; the solver waits here when it has processed
	// every materialized node and the arena is not yet complete.
	sizeMu   sync.Mutex
	sizeCond *sync.Cond

	// productStates is the env-node-id-indexed table of every non-Top/
	// non-Bottom product state ever queued: productStates[i] is the state
	// of envNodes[i], interned together so the env-node id and the
	// product-state ref are the same integer.
	productStates []pstate.State
	stateIndex    map[string]int32 // Key() -> env-node id, for dedup

	// sysNodeIndex canonicalizes sys-nodes by the hash of their outgoing
	// edge set, computed once all of a sys-node's edges are known.
	sysNodeIndex map[string]int32

	Winning chan Verdict

	// InitialNode is the env-node id of the root product state, fixed
	// once by the builder before exploration starts. It stays -1 when
	// the specification decides at the root itself (TrivialWinner holds
	// the verdict in that case and no node is ever materialized).
	InitialNode   int32
	TrivialWinner Winner

	complete bool
	solved   bool
	mu       sync.Mutex // guards complete/solved
}

// New allocates an empty arena over root's product-state space.
func New(root *tree.Node, inputMask, outputMask letter.Mask, inBDD, outBDD *bdd.Manager) *Arena {
	a := &Arena{
		Root:         root,
		InputMask:    inputMask,
		OutputMask:   outputMask,
		InputBDD:     inBDD,
		OutputBDD:    outBDD,
		stateIndex:   make(map[string]int32),
		sysNodeIndex: make(map[string]int32),
		Winning:      make(chan Verdict, 1024),
		InitialNode:  -1,
	}
	a.sizeCond = sync.NewCond(&a.sizeMu)
	return a
}

// NEnvNodes returns the number of materialized env-nodes, acquired under
// the size lock the way the solver reads the counter once per pass.
func (a *Arena) NEnvNodes() int32 {
	a.sizeMu.Lock()
	defer a.sizeMu.Unlock()
	return int32(len(a.envNodes))
}

// NSysNodes returns the number of materialized sys-nodes.
func (a *Arena) NSysNodes() int32 {
	a.sizeMu.Lock()
	defer a.sizeMu.Unlock()
	return int32(len(a.sysNodes))
}

// WaitForGrowth blocks until more env-nodes are materialized or the arena
// is complete, whichever the solver calls when it has caught up with the
// builder.
func (a *Arena) WaitForGrowth(lastSeen int32) {
	a.sizeMu.Lock()
	for int32(len(a.envNodes)) == lastSeen && !a.Complete() {
		a.sizeCond.Wait()
	}
	a.sizeMu.Unlock()
}

// Complete reports whether the frontier has emptied with nothing left to
// explore.
func (a *Arena) Complete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.complete
}

// SetComplete flips the completeness flag.
func (a *Arena) SetComplete() {
	a.mu.Lock()
	a.complete = true
	a.mu.Unlock()
	a.sizeCond.Broadcast()
}

// Solved reports whether the initial env-node has been decided.
func (a *Arena) Solved() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.solved
}

// SetSolved flips the solved flag, waking any waiter.
func (a *Arena) SetSolved() {
	a.mu.Lock()
	a.solved = true
	a.mu.Unlock()
	a.sizeCond.Broadcast()
}

// EnvNode returns a copy of the env-node at id under the resize read
// lock, the way the solver borrows arena vectors for the duration of a
// single access.
func (a *Arena) EnvNode(id int32) EnvNode {
	a.resizeMu.RLock()
	defer a.resizeMu.RUnlock()
	return a.envNodes[id]
}

// EnvSuccs returns id's outgoing edges.
func (a *Arena) EnvSuccs(id int32) []EnvEdge {
	a.resizeMu.RLock()
	defer a.resizeMu.RUnlock()
	n := a.envNodes[id]
	if n.SuccsBegin == unexploredSuccsBegin {
		return nil
	}
	return a.envSuccs[n.SuccsBegin : n.SuccsBegin+n.NumSuccs]
}

// SysNode returns a copy of the sys-node at id.
func (a *Arena) SysNode(id int32) SysNode {
	a.resizeMu.RLock()
	defer a.resizeMu.RUnlock()
	return a.sysNodes[id]
}

// SysSuccs returns id's outgoing edges.
func (a *Arena) SysSuccs(id int32) []SysEdge {
	a.resizeMu.RLock()
	defer a.resizeMu.RUnlock()
	n := a.sysNodes[id]
	return a.sysSuccs[n.SuccsBegin : n.SuccsBegin+n.NumSuccs]
}

// SetSysEdgeActive flips the active flag of one sys-node's edge, called
// only by the solver's strategy-improvement pass.
func (a *Arena) SetSysEdgeActive(sysNode int32, edgeOffset int, active bool) {
	a.resizeMu.RLock()
	defer a.resizeMu.RUnlock()
	begin := a.sysNodes[sysNode].SuccsBegin
	a.sysSuccs[begin+int32(edgeOffset)].Active = active
}

// SetEnvWinner / SetSysWinner record a solver verdict directly on the
// arena's node table; the builder-facing Winning channel is the
// cross-goroutine signal, these setters are the bookkeeping the solver
// itself needs while iterating.
func (a *Arena) SetEnvWinner(id int32, w Winner) {
	a.resizeMu.Lock()
	a.envNodes[id].Winner = w
	a.resizeMu.Unlock()
}

func (a *Arena) SetSysWinner(id int32, w Winner) {
	a.resizeMu.Lock()
	a.sysNodes[id].Winner = w
	a.resizeMu.Unlock()
}

// SetEnvStrategy records sysNode as the environment player's committed
// successor at env-node id, called only by the solver's environment
// strategy-improvement pass.
func (a *Arena) SetEnvStrategy(id int32, sysNode int32) {
	a.resizeMu.RLock()
	a.envNodes[id].Strategy = sysNode
	a.resizeMu.RUnlock()
}
