// Package pgdump writes a solved or in-progress arena out in the
// textual parity-game format spec.md §6 names: a header line `parity
// N;` followed by one `id color owner successors "label";` line per
// node, owner 0 meaning SYS and 1 meaning ENV.
//
// The arena's colors live on sys-node edges, not on nodes, so dumping
// it as a node-colored game (the format PGSolver-family tools expect)
// needs one extra layer: each sys-node becomes an uncolored SYS hub
// whose successors are synthetic per-edge SYS nodes, one per outgoing
// edge, carrying that edge's color and a single successor. This is the
// standard colored-edge-to-colored-node game transform, not anything
// original_source itself does (its own PGParser/PGSolver operate on
// the in-memory arena directly and never round-trip through text).
package pgdump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tp971/strix/internal/arena"
)

const (
	ownerSys = 0
	ownerEnv = 1
)

// Write dumps a to w in parity-game text format. a need not be solved;
// only materialized nodes are dumped (call after Builder.Run/Solver.Run
// for a complete, decided game).
func Write(w io.Writer, a *arena.Arena) error {
	bw := bufio.NewWriter(w)

	nEnv := a.NEnvNodes()
	nSys := a.NSysNodes()

	// id layout: [0, nEnv) env nodes, [nEnv, nEnv+nSys) sys hubs,
	// [nEnv+nSys, ...) one edge node per materialized sys-edge, plus one
	// final shared TOP sink.
	sysBase := nEnv
	edgeBase := nEnv + nSys
	edgeID := make([][]int32, nSys)
	next := edgeBase
	for i := int32(0); i < nSys; i++ {
		succs := a.SysSuccs(i)
		ids := make([]int32, len(succs))
		for j := range succs {
			ids[j] = next
			next++
		}
		edgeID[i] = ids
	}
	topID := next

	fmt.Fprintf(bw, "parity %d;\n", topID)

	for i := int32(0); i < nEnv; i++ {
		succs := a.EnvSuccs(i)
		fmt.Fprintf(bw, "%d %d %d ", i, 0, ownerEnv)
		for j, e := range succs {
			if j > 0 {
				bw.WriteByte(',')
			}
			fmt.Fprintf(bw, "%d", sysBase+e.SysNode)
		}
		fmt.Fprintf(bw, " \"env%d\";\n", i)
	}

	for i := int32(0); i < nSys; i++ {
		ids := edgeID[i]
		fmt.Fprintf(bw, "%d %d %d ", sysBase+i, 0, ownerSys)
		for j := range ids {
			if j > 0 {
				bw.WriteByte(',')
			}
			fmt.Fprintf(bw, "%d", ids[j])
		}
		fmt.Fprintf(bw, " \"sys%d\";\n", i)

		for j, e := range a.SysSuccs(i) {
			target := topID
			switch {
			case e.Successor == arena.Top:
				target = topID
			case e.Successor == arena.Bottom:
				target = topID // never materialized; route to the sink rather than dangle
			default:
				target = int32(e.Successor)
			}
			fmt.Fprintf(bw, "%d %d %d %d \"edge%d_%d\";\n", ids[j], int(e.Color), ownerSys, target, i, j)
		}
	}

	fmt.Fprintf(bw, "%d %d %d %d \"top\";\n", topID, 0, ownerSys, topID)

	return bw.Flush()
}
