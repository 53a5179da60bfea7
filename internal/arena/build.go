package arena

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/pstate"
)

// Builder drives the arena's on-the-fly exploration loop: pop a frontier
// entry, allocate an env-node, and for every relevant input action build
// (or reuse, by hash) the system node reached by every relevant output
// action, per spec.md §4.3.
type Builder struct {
	arena         *Arena
	frontier      Frontier
	inputActions  []letter.Letter
	outputActions []letter.Letter

	initialRef int32
}

// NewBuilder wires a builder over arena using frontier as its exploration
// queue. Output BDDs are always stored (spec.md §9's open question is
// resolved in favor of "always": skipping them breaks strategy
// extraction even in realizability-only mode).
func NewBuilder(a *Arena, frontier Frontier) *Builder {
	return &Builder{
		arena:         a,
		frontier:      frontier,
		inputActions:  a.InputMask.Actions(),
		outputActions: a.OutputMask.Actions(),
	}
}

// Run explores the arena until the frontier empties or the initial node
// is solved, draining winning verdicts between frontier pops.
func (b *Builder) Run() {
	a := b.arena
	initial := a.Root.InitialState()

	if a.Root.IsTopState(initial) || a.Root.IsBottomState(initial) {
		// A tautological/unsatisfiable specification decides before any
		// node is ever materialized; nothing for the solver to do.
		if a.Root.IsTopState(initial) {
			a.TrivialWinner = SysPlayer
		} else {
			a.TrivialWinner = EnvPlayer
		}
		a.SetSolved()
		a.SetComplete()
		return
	}

	b.initialRef = b.internState(initial)
	a.InitialNode = b.initialRef
	a.envNodes[b.initialRef].Reachable = true
	b.frontier.Push(FrontierEntry{Ref: b.initialRef, Score: 0})

	for {
		newVerdicts, done := b.drainVerdicts()
		if done {
			return
		}
		if newVerdicts {
			b.computeReachability()
			b.frontier.Filter(func(ref int32) bool { return a.envNodes[ref].Reachable })
		}
		entry, ok := b.frontier.Pop()
		if !ok {
			a.SetComplete()
			return
		}
		if a.envNodes[entry.Ref].SuccsBegin != unexploredSuccsBegin {
			continue // reached via a rescue re-push after already explored
		}
		b.explore(entry.Ref)
	}
}

// internState returns the env-node id for state, allocating a new
// reserved (unexplored) EnvNode row the first time this exact state is
// seen.
func (b *Builder) internState(s pstate.State) int32 {
	a := b.arena
	key := s.Key()
	if id, ok := a.stateIndex[key]; ok {
		return id
	}
	a.resizeMu.Lock()
	id := int32(len(a.envNodes))
	a.envNodes = append(a.envNodes, EnvNode{
		State:        s,
		SuccsBegin:   unexploredSuccsBegin,
		ProductLabel: -1,
		Reachable:    true,
		Strategy:     -1,
	})
	a.productStates = append(a.productStates, s)
	a.resizeMu.Unlock()
	a.stateIndex[key] = id
	return id
}

// drainVerdicts applies every pending solver verdict to the env-node
// table. It returns whether any new verdict arrived (triggering a
// reachability re-analysis, per spec.md §4.3 step 2) and whether the
// initial node is now decided.
func (b *Builder) drainVerdicts() (newVerdicts, solved bool) {
	a := b.arena
drain:
	for {
		select {
		case v := <-a.Winning:
			if int(v.EnvNode) < len(a.envNodes) {
				a.resizeMu.Lock()
				a.envNodes[v.EnvNode].Winner = v.Winner
				a.resizeMu.Unlock()
				newVerdicts = true
			}
		default:
			break drain
		}
	}
	if a.envNodes[b.initialRef].Winner != UndecidedWinner {
		a.SetSolved()
		return newVerdicts, true
	}
	return newVerdicts, false
}

// explore materializes ref's outgoing edges: one sys-node per relevant
// input action, each sys-node's outgoing edges computed over every
// relevant output action and canonicalized by hash.
func (b *Builder) explore(ref int32) {
	a := b.arena
	state := a.envNodes[ref].State

	begin := int32(len(a.envSuccs))
	for _, inAction := range b.inputActions {
		sysID := b.buildSysNode(state, inAction)
		inputBDD := a.InputBDD.FromLetter(inAction, a.InputMask)
		a.resizeMu.Lock()
		a.envSuccs = append(a.envSuccs, EnvEdge{SysNode: sysID, BDD: inputBDD})
		a.resizeMu.Unlock()
	}

	a.resizeMu.Lock()
	a.envNodes[ref].SuccsBegin = begin
	a.envNodes[ref].NumSuccs = int32(len(b.inputActions))
	a.resizeMu.Unlock()

	a.sizeMu.Lock()
	a.sizeCond.Broadcast()
	a.sizeMu.Unlock()
}

// sysEdgeCandidate accumulates, per distinct (color, successor) pair,
// the union of output-letter BDDs reaching it — the "merge outputs by
// accumulating... the BDD of output letters reaching it" step of
// spec.md §4.3.
type sysEdgeCandidate struct {
	successor NodeRef
	color     int
	bdd       bdd.Node
	set       bool
}

// buildSysNode computes the full outgoing edge set for the system node
// reached from state by inAction, then canonicalizes it by hashing
// against previously-built sys-nodes.
func (b *Builder) buildSysNode(state pstate.State, inAction letter.Letter) int32 {
	a := b.arena
	inputFull := a.InputMask.Expand(inAction)

	// key: (color, successor) -> accumulated output BDD.
	byKey := make(map[[2]int32]*sysEdgeCandidate)
	var order [][2]int32

	for _, outAction := range b.outputActions {
		outputFull := a.OutputMask.Expand(outAction)
		full := inputFull | outputFull

		newState := state.Clone()
		cs := a.Root.Successor(state, newState, full)

		var succ NodeRef
		switch {
		case a.Root.IsTopState(newState):
			succ = Top
		case a.Root.IsBottomState(newState):
			continue // dropped: bottom edges are never materialized
		default:
			succ = NodeRef(b.internState(newState))
		}

		k := [2]int32{int32(cs.Color), int32(succ)}
		cand, ok := byKey[k]
		outputBDD := a.OutputBDD.FromLetter(outAction, a.OutputMask)
		if !ok {
			cand = &sysEdgeCandidate{successor: succ, color: int(cs.Color), bdd: outputBDD, set: true}
			byKey[k] = cand
			order = append(order, k)
		} else {
			cand.bdd = a.OutputBDD.Or(cand.bdd, outputBDD)
		}

		if succ >= 0 {
			// A rescue: if this successor had been pruned from the
			// frontier as unreachable, re-queue it now that a live edge
			// reaches it again.
			b.rescue(int32(succ))
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i][1] != order[j][1] {
			return order[i][1] < order[j][1]
		}
		return order[i][0] < order[j][0]
	})

	edges := make([]SysEdge, 0, len(order))
	var hashParts []string
	for _, k := range order {
		cand := byKey[k]
		edges = append(edges, SysEdge{Successor: cand.successor, Color: color.Color(cand.color)})
		hashParts = append(hashParts, strconv.Itoa(int(cand.successor))+":"+strconv.Itoa(cand.color))
	}
	sysKey := strings.Join(hashParts, ",")

	a.resizeMu.Lock()
	if id, ok := a.sysNodeIndex[sysKey]; ok {
		a.resizeMu.Unlock()
		return id
	}
	id := int32(len(a.sysNodes))
	begin := int32(len(a.sysSuccs))
	for i, k := range order {
		e := edges[i]
		e.BDD = byKey[k].bdd
		a.sysSuccs = append(a.sysSuccs, e)
	}
	a.sysNodes = append(a.sysNodes, SysNode{SuccsBegin: begin, NumSuccs: int32(len(order))})
	a.sysNodeIndex[sysKey] = id
	a.resizeMu.Unlock()
	return id
}

// computeReachability runs a BFS from the initial env-node over edges to
// not-yet-decided successors, marking every env-node's Reachable flag —
// the "rerun reachability analysis... mark newly-unreachable nodes" step
// of spec.md §4.3, run whenever new solver verdicts arrive.
func (b *Builder) computeReachability() {
	a := b.arena
	a.resizeMu.RLock()
	n := len(a.envNodes)
	visited := make([]bool, n)
	queue := []int32{b.initialRef}
	visited[b.initialRef] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		env := a.envNodes[id]
		if env.Winner != UndecidedWinner || env.SuccsBegin == unexploredSuccsBegin {
			continue
		}
		for _, ee := range a.envSuccs[env.SuccsBegin : env.SuccsBegin+env.NumSuccs] {
			sysNode := a.sysNodes[ee.SysNode]
			if sysNode.Winner != UndecidedWinner {
				continue
			}
			for _, se := range a.sysSuccs[sysNode.SuccsBegin : sysNode.SuccsBegin+sysNode.NumSuccs] {
				if se.Successor < 0 || int32(se.Successor) >= int32(n) {
					continue // Top sentinel, or a node not yet visible to this snapshot
				}
				sid := int32(se.Successor)
				if !visited[sid] {
					visited[sid] = true
					queue = append(queue, sid)
				}
			}
		}
	}
	a.resizeMu.RUnlock()

	a.resizeMu.Lock()
	for i := range a.envNodes {
		a.envNodes[i].Reachable = visited[i]
	}
	a.resizeMu.Unlock()
}

// rescue re-pushes ref onto the frontier if it had previously been
// pruned as unreachable by a reachability analysis, per spec.md §4.3
// step 3b: "if it is seen but had been marked unreachable, rescue it by
// re-inserting into the frontier."
func (b *Builder) rescue(ref int32) {
	a := b.arena
	a.resizeMu.Lock()
	n := &a.envNodes[ref]
	wasUnreachable := !n.Reachable
	n.Reachable = true
	unexplored := n.SuccsBegin == unexploredSuccsBegin
	a.resizeMu.Unlock()
	if wasUnreachable && unexplored {
		b.frontier.Push(FrontierEntry{Ref: ref, Score: 0})
	}
}
