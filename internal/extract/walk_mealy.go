package extract

import (
	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/mealy"
)

const topSentinel = int32(-1) // stands in for arena.Top as a successor-group key

// mealySuccGroup accumulates the union of active output-edge BDDs
// reaching one raw successor (an env-node id, or topSentinel for Top).
type mealySuccGroup struct {
	out   bdd.Node
	order int
}

// walkMealy BFS-extracts the system's strategy, one machine state per
// reachable env-node, per PGSolver::constructMealyMachine.
func walkMealy(a *arena.Arena, opts Options) (*mealy.Machine, error) {
	nIn := a.InputMask.NumRelevant()
	nOut := a.OutputMask.NumRelevant()
	m := mealy.New(names(opts.InputNames, nIn, "i"), names(opts.OutputNames, nOut, "o"), mealy.Mealy)

	stateMap := map[int32]int32{a.InitialNode: 0}
	queue := []int32{a.InitialNode}
	hasTop := false

	for len(queue) > 0 {
		envNode := queue[0]
		queue = queue[1:]
		state := stateMap[envNode]

		type transKey struct {
			next  int32
			outID string
		}
		grouped := make(map[transKey]bdd.Node)
		var groupedOrder []transKey
		groupedOutput := make(map[transKey]bdd.Cube)

		for _, ee := range a.EnvSuccs(envNode) {
			groups := make(map[int32]*mealySuccGroup)
			var order []int32
			for _, se := range a.SysSuccs(ee.SysNode) {
				if !se.Active {
					continue
				}
				key := topSentinel
				if se.Successor != arena.Top {
					key = int32(se.Successor)
				}
				if g, ok := groups[key]; ok {
					g.out = a.OutputBDD.Or(g.out, se.BDD)
				} else {
					groups[key] = &mealySuccGroup{out: se.BDD, order: len(order)}
					order = append(order, key)
				}
			}
			if len(order) == 0 {
				continue // strategy excludes this input action entirely (malformed/unreachable)
			}

			best := chooseMealySuccessor(order, stateMap)

			var nextID int32
			if best == topSentinel {
				nextID = mealy.TopState
				hasTop = true
			} else {
				id, ok := stateMap[best]
				if !ok {
					id = m.AddState()
					stateMap[best] = id
					queue = append(queue, best)
				}
				nextID = id
			}

			outCubes := a.OutputBDD.PrimeCubes(groups[best].out)
			if len(outCubes) == 0 {
				continue
			}
			sortCubes(outCubes)
			chosen := outCubes[0]

			k := transKey{next: nextID, outID: cubeKey(chosen)}
			if in, ok := grouped[k]; ok {
				grouped[k] = a.InputBDD.Or(in, ee.BDD)
			} else {
				grouped[k] = ee.BDD
				groupedOutput[k] = chosen
				groupedOrder = append(groupedOrder, k)
			}
		}

		for _, k := range groupedOrder {
			inCubes := mergeCubes(a.InputBDD.PrimeCubes(grouped[k]))
			for _, ic := range inCubes {
				m.AddTransition(state, mealy.Transition{
					NextState: k.next,
					Input:     ic,
					Output:    groupedOutput[k],
				})
			}
		}
	}

	if hasTop {
		topID := m.AddState()
		m.RemapTopState(topID)
		m.AddTransition(topID, mealy.Transition{
			NextState: topID,
			Input:     anyCube(nIn),
			Output:    anyCube(nOut),
		})
	}

	return m, nil
}

// chooseMealySuccessor implements the original's successor-selection
// heuristic: always prefer Top; otherwise prefer an already-explored
// successor (keeps the machine small); otherwise the first candidate in
// edge order. This drops the CUDD CountMinterm tie-break the original
// uses among multiple already-explored candidates, which only affects
// which minterm grouping wins when several are otherwise equally good.
func chooseMealySuccessor(order []int32, stateMap map[int32]int32) int32 {
	for _, k := range order {
		if k == topSentinel {
			return k
		}
	}
	for _, k := range order {
		if _, explored := stateMap[k]; explored {
			return k
		}
	}
	return order[0]
}

func cubeKey(c bdd.Cube) string {
	buf := make([]byte, len(c))
	for i, v := range c {
		buf[i] = byte(v) + 2
	}
	return string(buf)
}
