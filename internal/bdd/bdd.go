// Package bdd wraps github.com/dalzilio/rudd, a BuDDy-style binary decision
// diagram package, presenting the small slice of BDD operations the arena
// and strategy extractor need: building a variable universe over letter
// bits, combining edge conditions with And/Or, and enumerating prime cubes
// for output-letter reconstruction.
package bdd

import (
	"fmt"

	"github.com/dalzilio/rudd"

	"github.com/tp971/strix/internal/letter"
)

// Manager owns one rudd BDD universe over a fixed number of propositions
// (either the input or the output alphabet of one arena).
type Manager struct {
	bdd    *rudd.BDD
	nvars  int
}

// NewManager allocates a BDD manager over nvars boolean variables, one per
// relevant proposition bit.
func NewManager(nvars int) (*Manager, error) {
	if nvars == 0 {
		nvars = 1
	}
	b, err := rudd.New(nvars)
	if err != nil {
		return nil, fmt.Errorf("bdd: allocate manager: %w", err)
	}
	return &Manager{bdd: b, nvars: nvars}, nil
}

// Node is one BDD reference within a Manager.
type Node struct {
	ref rudd.Node
}

// True returns the constant-true node.
func (m *Manager) True() Node { return Node{m.bdd.One()} }

// False returns the constant-false node.
func (m *Manager) False() Node { return Node{m.bdd.Zero()} }

// Var returns the positive literal for variable i.
func (m *Manager) Var(i int) Node { return Node{m.bdd.Ithvar(i)} }

// NVar returns the negative literal for variable i.
func (m *Manager) NVar(i int) Node { return Node{m.bdd.NIthvar(i)} }

// And conjoins a and b.
func (m *Manager) And(a, b Node) Node { return Node{m.bdd.And(a.ref, b.ref)} }

// Or disjoins a and b.
func (m *Manager) Or(a, b Node) Node { return Node{m.bdd.Or(a.ref, b.ref)} }

// Not negates a.
func (m *Manager) Not(a Node) Node { return Node{m.bdd.Not(a.ref)} }

// Equal reports structural (hence semantic, for a shared manager) equality.
func (m *Manager) Equal(a, b Node) bool { return a.ref == b.ref }

// FromLetter builds the minterm BDD for exactly one letter, restricted to
// the relevant bits named by mask.
func (m *Manager) FromLetter(l letter.Letter, mask letter.Mask) Node {
	n := m.True()
	for i := 0; i < mask.NumRelevant(); i++ {
		if l.Test(i) {
			n = m.And(n, m.Var(i))
		} else {
			n = m.And(n, m.NVar(i))
		}
	}
	return n
}

// Cube is one prime-implicant of a BDD over the manager's variables: one
// entry per variable, -1 for "don't care", 0/1 otherwise.
type Cube []int8

// PrimeCubes enumerates the prime-implicant cover of n via rudd's
// satisfying-assignment generator, used by the strategy extractor to turn
// an edge's output-letter BDD back into SpecSeq bit patterns.
func (m *Manager) PrimeCubes(n Node) []Cube {
	var cubes []Cube
	for assignment := range m.bdd.AllSat(n.ref) {
		cube := make(Cube, len(assignment))
		copy(cube, assignment)
		cubes = append(cubes, cube)
	}
	return cubes
}
