package solver

import (
	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/color"
)

// player is the distance-vector sign convention from PGSISolver.cc:
// SysPlayer's infinities are positive, EnvPlayer's negative, so a single
// pair of relaxation/improvement routines can be reused for both by
// multiplying distInfinity through p.
type player int8

const (
	sysPlayer player = 1
	envPlayer player = -1
)

// distInfinity stands in for the original's DISTANCE_INFINITY: large
// enough that color deltas (±1 per relaxation step) never reach it by
// accumulation within one pass.
const (
	distInfinity      int64 = 1 << 30
	distMinusInfinity int64 = -distInfinity
)

// pass is one complete preprocess_and_solve_game attempt: a snapshot of
// the arena's current size and color range, plus the working distance
// vectors and env strategy table strategy iteration mutates in place.
type pass struct {
	a    *arena.Arena
	opts Options

	nEnv, nSys int32
	nColors    int32
	colorMap   color.CompactMap
	parityType int

	sysDist     []int64 // nSys*nColors, flattened
	envDist     []int64 // nEnv*nColors, flattened
	envStrategy []int32 // per env node: committed sys-node successor, or -1
}

func newPass(a *arena.Arena, opts Options) *pass {
	p := &pass{
		a:          a,
		opts:       opts,
		nEnv:       a.NEnvNodes(),
		nSys:       a.NSysNodes(),
		parityType: int(a.Root.Parity),
	}
	p.computeColors()
	p.sysDist = make([]int64, int64(p.nSys)*int64(p.nColors))
	p.envDist = make([]int64, int64(p.nEnv)*int64(p.nColors))
	p.envStrategy = make([]int32, p.nEnv)
	for i := int32(0); i < p.nEnv; i++ {
		// Seed from the arena's persisted choice (survives across solve
		// attempts, matching PGSISolver's env_successors resize-not-clear
		// behavior) rather than resetting to "no strategy" every attempt.
		p.envStrategy[i] = a.EnvNode(i).Strategy
	}
	return p
}

// computeColors builds the color.CompactMap for this attempt, mirroring
// PGSolver::reduce_colors/copy_colors: counted over every sys-edge color
// currently materialized.
func (p *pass) computeColors() {
	maxColor := int(p.a.Root.MaxColor) + 1
	if p.opts.CompactColors {
		used := make([]int, maxColor)
		for i := int32(0); i < p.nSys; i++ {
			for _, e := range p.a.SysSuccs(i) {
				used[int(e.Color)]++
			}
		}
		p.colorMap = color.Compact(used)
	} else {
		p.colorMap = color.Identity(maxColor)
	}
	p.nColors = int32(p.colorMap.NumColors())
}

func (p *pass) colorDelta(c color.Color) int64 {
	if (p.parityType+int(c))%2 == 0 {
		return 1
	}
	return -1
}

func winnerFor(pl player) arena.Winner {
	if pl == sysPlayer {
		return arena.SysPlayer
	}
	return arena.EnvPlayer
}

func winnerMatches(w arena.Winner, pl player) bool {
	return w == winnerFor(pl)
}

// solveGame runs the two strategy-iteration passes in the original's
// fixed order: system player first, then environment player.
func (p *pass) solveGame() {
	p.strategyIteration(sysPlayer)
	p.strategyIteration(envPlayer)
}

// strategyIteration repeatedly relaxes distances and improves the
// strategy until neither changes or the initial node is decided,
// matching PGSISolver::strategy_iteration<P>.
func (p *pass) strategyIteration(pl player) {
	change := true
	for change && !p.initialDecided() {
		p.bellmanFord(pl)
		change = p.strategyImprovement(pl)
		p.updateNodes(pl)
	}
}

func (p *pass) initialDecided() bool {
	return p.a.EnvNode(p.a.InitialNode).Winner != arena.UndecidedWinner
}
