// Package extract turns a solved arena into a mealy.Machine by a
// breadth-first walk of the strategy the solver committed to spec.md
// §4.5, grounded on PGSolver.cc's constructMealyMachine/
// constructMooreMachine (moved here from the solver, since in this repo
// the solver's only job is to decide winners, not to walk strategies).
package extract

import (
	"errors"
	"sort"

	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/mealy"
)

// ErrUnrealizable is returned by ExtractMealy when the system does not
// win the initial node — callers that only need a realizability verdict
// should check arena winners directly and not pay for extraction.
var ErrUnrealizable = errors.New("extract: specification is not realizable")

// ErrUnsynthesizableWitness is returned by ExtractMoore when the
// environment does not win the initial node, so there is no counter-
// strategy to extract.
var ErrUnsynthesizableWitness = errors.New("extract: specification is realizable, no environment witness to extract")

// Options controls one extraction run.
type Options struct {
	// InputNames/OutputNames label the machine's alphabets; if nil,
	// positional names ("i0", "o0", ...) are used.
	InputNames, OutputNames []string
	// AddProductLabels carries the --labels request. ExtractMealy and
	// ExtractMoore do not read it: no product-state labels are attached
	// to the extracted machine.
	AddProductLabels bool
}

func names(given []string, n int, prefix string) []string {
	if len(given) == n {
		return given
	}
	out := make([]string, n)
	for i := range out {
		out[i] = letterName(prefix, i)
	}
	return out
}

func letterName(prefix string, i int) string {
	const digits = "0123456789"
	if i < 10 {
		return prefix + string(digits[i])
	}
	// Rare (> 9 propositions of one kind); fall back to a readable
	// multi-digit name rather than importing strconv for one call site.
	var buf []byte
	n := i
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return prefix + string(buf)
}

// ExtractMealy walks the system player's (possibly non-deterministic)
// active-edge strategy and returns the Mealy controller it implements.
func ExtractMealy(a *arena.Arena, opts Options) (*mealy.Machine, error) {
	if a.InitialNode < 0 {
		if a.TrivialWinner != arena.SysPlayer {
			return nil, ErrUnrealizable
		}
		return trivialSysMachine(a, opts), nil
	}
	if a.EnvNode(a.InitialNode).Winner != arena.SysPlayer {
		return nil, ErrUnrealizable
	}
	return walkMealy(a, opts)
}

// ExtractMoore walks the environment player's committed strategy and
// returns the witness machine it implements (outputs of this machine
// are the environment's chosen inputs, per spec.md §4.5's Moore
// semantics for unrealizability witnesses).
func ExtractMoore(a *arena.Arena, opts Options) (*mealy.Machine, error) {
	if a.InitialNode < 0 {
		if a.TrivialWinner != arena.EnvPlayer {
			return nil, ErrUnsynthesizableWitness
		}
		return trivialEnvMachine(a, opts), nil
	}
	if a.EnvNode(a.InitialNode).Winner != arena.EnvPlayer {
		return nil, ErrUnsynthesizableWitness
	}
	return walkMoore(a, opts)
}

func trivialSysMachine(a *arena.Arena, opts Options) *mealy.Machine {
	nIn := a.InputMask.NumRelevant()
	nOut := a.OutputMask.NumRelevant()
	m := mealy.New(names(opts.InputNames, nIn, "i"), names(opts.OutputNames, nOut, "o"), mealy.Mealy)
	m.AddTransition(0, mealy.Transition{
		NextState: 0,
		Input:     anyCube(nIn),
		Output:    anyCube(nOut),
	})
	return m
}

func trivialEnvMachine(a *arena.Arena, opts Options) *mealy.Machine {
	nIn := a.InputMask.NumRelevant()
	nOut := a.OutputMask.NumRelevant()
	m := mealy.New(names(opts.InputNames, nIn, "i"), names(opts.OutputNames, nOut, "o"), mealy.Moore)
	m.AddTransition(0, mealy.Transition{
		NextState: 0,
		Input:     anyCube(nOut), // Moore's "input" alphabet is the environment's own outputs
		Output:    anyCube(nIn),
	})
	return m
}

func anyCube(n int) bdd.Cube {
	c := make(bdd.Cube, n)
	for i := range c {
		c[i] = -1
	}
	return c
}

// sortCubes orders prime cubes the way the original sorts candidate
// output SpecSeqs before emitting transitions: fewer specified bits
// (more don't-cares) first, then fewer ones among the specified bits —
// a simplification of constructMealyMachine's popcount comparator that
// keeps the same intent (prefer the most general label) without needing
// CUDD's CountMinterm.
func sortCubes(cubes []bdd.Cube) {
	weight := func(c bdd.Cube) (ones, care int) {
		for _, b := range c {
			if b >= 0 {
				care++
				if b == 1 {
					ones++
				}
			}
		}
		return
	}
	sort.Slice(cubes, func(i, j int) bool {
		oi, ci := weight(cubes[i])
		oj, cj := weight(cubes[j])
		if ci != cj {
			return ci < cj
		}
		return oi < oj
	})
}
