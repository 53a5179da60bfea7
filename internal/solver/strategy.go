package solver

import (
	"sync/atomic"

	"github.com/tp971/strix/internal/arena"
)

// strategyImprovement dispatches to the player-specific pass: the system
// player's pass decides which (possibly several, for a non-deterministic
// strategy) outgoing edges of each sys-node stay active; the environment
// player's pass commits each env-node to a single best successor.
func (p *pass) strategyImprovement(pl player) bool {
	if pl == sysPlayer {
		return p.strategyImprovementSys()
	}
	return p.strategyImprovementEnv()
}

// strategyImprovementSys mirrors PGSISolver::strategy_improvement<SYS_PLAYER>:
// an edge stays active if following it does not strictly worsen the
// node's distance vector (ties count as active, since the strategy may
// be non-deterministic).
func (p *pass) strategyImprovementSys() bool {
	a := p.a
	var changed atomic.Bool
	parallelFor(p.nSys, p.opts.Workers, func(i int32) {
		k := int64(i) * int64(p.nColors)
		if a.SysNode(i).Winner != arena.UndecidedWinner || p.sysDist[k] >= distInfinity {
			return
		}
		for j, e := range a.SysSuccs(i) {
			active := false
			switch {
			case e.Successor == arena.Top:
				active = true
				changed.Store(true)
			case e.Successor >= 0 && a.EnvNode(int32(e.Successor)).Winner != arena.EnvPlayer:
				sid := int32(e.Successor)
				m := int64(sid) * int64(p.nColors)
				improvement := true
				curColor := p.colorMap.Map(e.Color)
				delta := p.colorDelta(curColor)
				p.sysDist[k+int64(curColor)] -= delta
				mm := m
				for l := k; l < k+int64(p.nColors); l, mm = l+1, mm+1 {
					d := p.sysDist[l]
					dSucc := p.envDist[mm]
					if dSucc > d {
						changed.Store(true)
						break
					} else if dSucc != d {
						improvement = false
						break
					}
				}
				p.sysDist[k+int64(curColor)] += delta
				active = improvement
			}
			a.SetSysEdgeActive(i, j, active)
		}
	})
	return changed.Load()
}

// strategyImprovementEnv mirrors PGSISolver::strategy_improvement<ENV_PLAYER>:
// the environment commits to the first successor (in edge order) whose
// distance vector is a strict improvement, breaking as soon as one is
// found — the environment's strategy is always deterministic.
func (p *pass) strategyImprovementEnv() bool {
	a := p.a
	var changed atomic.Bool
	parallelFor(p.nEnv, p.opts.Workers, func(i int32) {
		k := int64(i) * int64(p.nColors)
		if a.EnvNode(i).Winner != arena.UndecidedWinner || p.envDist[k] <= distMinusInfinity {
			return
		}
		for _, e := range a.EnvSuccs(i) {
			sid := e.SysNode
			if a.SysNode(sid).Winner == arena.SysPlayer {
				continue
			}
			m := int64(sid) * int64(p.nColors)
			improvement := false
			if p.sysDist[m] == distMinusInfinity {
				improvement = true
			} else {
				mm := m
				for l := k; l < k+int64(p.nColors); l, mm = l+1, mm+1 {
					d := p.envDist[l]
					dSucc := p.sysDist[mm]
					if dSucc < d {
						improvement = true
						break
					} else if dSucc != d {
						break
					}
				}
			}
			if improvement {
				changed.Store(true)
				p.envStrategy[i] = sid
				a.SetEnvStrategy(i, sid)
				break
			}
		}
	})
	return changed.Load()
}

// updateNodes marks every node whose distance vector has reached the
// current player's infinity as won by that player, per
// PGSISolver::update_nodes<P>, and publishes a Verdict for each newly
// decided env-node onto the arena's winning-verdict channel so the
// builder can re-run reachability.
func (p *pass) updateNodes(pl player) {
	a := p.a
	w := winnerFor(pl)

	parallelFor(p.nEnv, p.opts.Workers, func(i int32) {
		if a.EnvNode(i).Winner == arena.UndecidedWinner && p.envDist[int64(i)*int64(p.nColors)] == int64(pl)*distInfinity {
			a.SetEnvWinner(i, w)
			select {
			case a.Winning <- arena.Verdict{EnvNode: i, Winner: w}:
			default:
				// Channel is buffered generously; a full channel only
				// means the builder hasn't drained yet, and it will pick
				// this verdict up from a.EnvNode on its next pass.
			}
		}
	})

	parallelFor(p.nSys, p.opts.Workers, func(i int32) {
		if a.SysNode(i).Winner != arena.UndecidedWinner || p.sysDist[int64(i)*int64(p.nColors)] != int64(pl)*distInfinity {
			return
		}
		a.SetSysWinner(i, w)
		if pl != sysPlayer {
			return
		}
		// A non-deterministic sys strategy may still list edges to
		// undecided-but-finite env successors; deactivate them so the
		// extracted machine doesn't route through a losing detour.
		for j, e := range a.SysSuccs(i) {
			if !e.Active || e.Successor < 0 {
				continue
			}
			succ := int32(e.Successor)
			if a.EnvNode(succ).Winner == arena.UndecidedWinner && p.envDist[int64(succ)*int64(p.nColors)] < distInfinity {
				a.SetSysEdgeActive(i, j, false)
			}
		}
	})
}
