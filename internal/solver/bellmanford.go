package solver

import (
	"sync/atomic"

	"github.com/tp971/strix/internal/arena"
)

// bellmanFord relaxes sysDist/envDist to a fixed point for the current
// active-edge set, per PGSISolver::bellman_ford<P>: both sub-iterations
// run every round in sys-then-env order, but only the second one's
// change flag drives the loop (matching the original exactly).
func (p *pass) bellmanFord(pl player) {
	p.bellmanFordInit(pl)
	change := true
	for change {
		if pl == sysPlayer {
			p.bellmanFordSys(pl)
			change = p.bellmanFordEnv(pl)
		} else {
			p.bellmanFordEnv(pl)
			change = p.bellmanFordSys(pl)
		}
	}
}

func (p *pass) bellmanFordInit(pl player) {
	a := p.a
	parallelFor(p.nSys, p.opts.Workers, func(i int32) {
		w := a.SysNode(i).Winner
		k := int64(i) * int64(p.nColors)
		if winnerMatches(w, pl) || (pl == envPlayer && w == arena.UndecidedWinner) {
			p.sysDist[k] = int64(pl) * distInfinity
		} else {
			for l := k; l < k+int64(p.nColors); l++ {
				p.sysDist[l] = 0
			}
		}
	})
	parallelFor(p.nEnv, p.opts.Workers, func(i int32) {
		w := a.EnvNode(i).Winner
		k := int64(i) * int64(p.nColors)
		if winnerMatches(w, pl) || (pl == sysPlayer && w == arena.UndecidedWinner) {
			p.envDist[k] = int64(pl) * distInfinity
		} else {
			for l := k; l < k+int64(p.nColors); l++ {
				p.envDist[l] = 0
			}
		}
	})
}

// bellmanFordSys relaxes every undecided sys-node's distance vector
// against its (env-player: all, sys-player: active-only) successors.
func (p *pass) bellmanFordSys(pl player) bool {
	a := p.a
	var changed atomic.Bool
	parallelFor(p.nSys, p.opts.Workers, func(i int32) {
		if a.SysNode(i).Winner != arena.UndecidedWinner {
			return
		}
		k := int64(i) * int64(p.nColors)
		if pl == sysPlayer {
			for l := k; l < k+int64(p.nColors); l++ {
				p.sysDist[l] = 0
			}
		}
		for _, e := range a.SysSuccs(i) {
			if pl != envPlayer && !e.Active {
				continue
			}
			switch e.Successor {
			case arena.Bottom:
				continue
			case arena.Top:
				if p.sysDist[k] != distInfinity {
					changed.Store(true)
					p.sysDist[k] = distInfinity
				}
				return
			}

			sid := int32(e.Successor)
			m := int64(sid) * int64(p.nColors)
			if p.envDist[m] == distInfinity {
				if p.sysDist[k] != distInfinity {
					changed.Store(true)
					p.sysDist[k] = distInfinity
				}
				return
			} else if p.envDist[m] == distMinusInfinity {
				continue
			}

			localChange := false
			curColor := p.colorMap.Map(e.Color)
			delta := p.colorDelta(curColor)
			p.sysDist[k+int64(curColor)] -= delta
			mm := m
			for l := k; l < k+int64(p.nColors); l, mm = l+1, mm+1 {
				d := p.sysDist[l]
				dSucc := p.envDist[mm]
				if localChange || dSucc > d {
					p.sysDist[l] = dSucc
					localChange = true
				} else if dSucc != d {
					break
				}
			}
			p.sysDist[k+int64(curColor)] += delta
			if localChange {
				changed.Store(true)
			}
		}
	})
	return changed.Load()
}

// bellmanFordEnv relaxes every undecided env-node's distance vector: the
// system-player pass takes the pointwise minimum over every successor
// sys-node (environment has full choice there), the environment-player
// pass follows only its already-committed strategy edge.
func (p *pass) bellmanFordEnv(pl player) bool {
	a := p.a
	var changed atomic.Bool
	parallelFor(p.nEnv, p.opts.Workers, func(i int32) {
		if a.EnvNode(i).Winner != arena.UndecidedWinner {
			return
		}
		k := int64(i) * int64(p.nColors)
		if pl == sysPlayer {
			for _, e := range a.EnvSuccs(i) {
				m := int64(e.SysNode) * int64(p.nColors)
				if p.sysDist[m] >= distInfinity {
					continue
				}
				localChange := false
				mm := m
				for l := k; l < k+int64(p.nColors); l, mm = l+1, mm+1 {
					d := p.envDist[l]
					dSucc := p.sysDist[mm]
					if localChange || dSucc < d {
						p.envDist[l] = dSucc
						localChange = true
					} else if dSucc != d {
						break
					}
				}
				if localChange {
					changed.Store(true)
				}
			}
		} else if sid := p.envStrategy[i]; sid >= 0 {
			m := int64(sid) * int64(p.nColors)
			mm := m
			for l := k; l < k+int64(p.nColors); l, mm = l+1, mm+1 {
				p.envDist[l] = p.sysDist[mm]
			}
		}
	})
	return changed.Load()
}
