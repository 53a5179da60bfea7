package extract

import (
	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/mealy"
)

// walkMoore BFS-extracts the environment's committed strategy as a
// witness machine: its "input" alphabet is the system's output (the
// Moore machine reacts to what the system plays), its "output" alphabet
// is the environment's own chosen input letter, per
// PGSolver::constructMooreMachine.
func walkMoore(a *arena.Arena, opts Options) (*mealy.Machine, error) {
	nIn := a.InputMask.NumRelevant()
	nOut := a.OutputMask.NumRelevant()
	m := mealy.New(names(opts.OutputNames, nOut, "o"), names(opts.InputNames, nIn, "i"), mealy.Moore)

	stateMap := map[int32]int32{a.InitialNode: 0}
	queue := []int32{a.InitialNode}
	hasTop := false

	for len(queue) > 0 {
		envNode := queue[0]
		queue = queue[1:]
		state := stateMap[envNode]

		sysNode := a.EnvNode(envNode).Strategy
		if sysNode < 0 {
			// No committed strategy recorded (shouldn't happen for a
			// node the environment actually wins); leave state terminal.
			continue
		}
		envEdgeBDD := envInputBDDFor(a, envNode, sysNode)
		envChoice := firstCube(a.InputBDD.PrimeCubes(envEdgeBDD), nIn)

		covered := a.OutputBDD.False()
		for _, se := range a.SysSuccs(sysNode) {
			var next int32
			switch se.Successor {
			case arena.Bottom:
				continue
			case arena.Top:
				next = mealy.TopState
				hasTop = true
			default:
				succ := int32(se.Successor)
				id, ok := stateMap[succ]
				if !ok {
					id = m.AddState()
					stateMap[succ] = id
					queue = append(queue, succ)
				}
				next = id
			}
			covered = a.OutputBDD.Or(covered, se.BDD)
			for _, outCube := range mergeCubes(a.OutputBDD.PrimeCubes(se.BDD)) {
				m.AddTransition(state, mealy.Transition{
					NextState: next,
					Input:     outCube,
					Output:    envChoice,
				})
			}
		}

		if !a.OutputBDD.Equal(covered, a.OutputBDD.True()) {
			// The system has an output combination the arena never
			// reached (it led to Bottom): playing it loses for the
			// system immediately, so the witness routes there too.
			hasTop = true
			remainder := a.OutputBDD.Not(covered)
			for _, outCube := range mergeCubes(a.OutputBDD.PrimeCubes(remainder)) {
				m.AddTransition(state, mealy.Transition{
					NextState: mealy.TopState,
					Input:     outCube,
					Output:    envChoice,
				})
			}
		}
	}

	if hasTop {
		topID := m.AddState()
		m.RemapTopState(topID)
		m.AddTransition(topID, mealy.Transition{
			NextState: topID,
			Input:     anyCube(nOut),
			Output:    anyCube(nIn),
		})
	}

	return m, nil
}

// envInputBDDFor returns the input BDD labelling the env-edge from
// envNode to sysNode (the environment's committed action), falling back
// to the universal input BDD if not found. Sys-nodes are shared by hash,
// so when several env-edges of envNode lead to sysNode the first is used.
func envInputBDDFor(a *arena.Arena, envNode, sysNode int32) bdd.Node {
	for _, ee := range a.EnvSuccs(envNode) {
		if ee.SysNode == sysNode {
			return ee.BDD
		}
	}
	return a.InputBDD.True()
}

func firstCube(cubes []bdd.Cube, width int) bdd.Cube {
	if len(cubes) > 0 {
		return cubes[0]
	}
	return anyCube(width)
}
