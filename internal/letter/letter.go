// Package letter implements the bit-vector letters that index proposition
// assignments across the synthesis pipeline.
package letter

import "math/bits"

// Letter is an unsigned bit-vector indexing one assignment of all
// propositions (inputs concatenated with outputs). Bit i is set iff
// proposition i is true under this letter.
type Letter uint64

// MaxVars is the largest number of propositions a single Letter can encode.
const MaxVars = 64

// Test reports whether proposition bit i is set.
func (l Letter) Test(i int) bool {
	return l&(1<<uint(i)) != 0
}

// With returns l with bit i set to v.
func (l Letter) With(i int, v bool) Letter {
	if v {
		return l | (1 << uint(i))
	}
	return l &^ (1 << uint(i))
}

// Mask marks a subset of proposition bits, used to identify the bits that
// are irrelevant to a particular automaton or arena action: unused,
// constantly true, or constantly false.
type Mask struct {
	// Relevant has a 1 bit for every proposition that actually matters.
	Relevant Letter
	// ConstTrue has a 1 bit for every irrelevant proposition fixed to true.
	ConstTrue Letter
	// ConstFalse has a 1 bit for every irrelevant proposition fixed to false.
	ConstFalse Letter
}

// NewMask builds a mask for nVars propositions, all initially relevant.
func NewMask(nVars int) Mask {
	var rel Letter
	for i := 0; i < nVars; i++ {
		rel = rel.With(i, true)
	}
	return Mask{Relevant: rel}
}

// Fix marks proposition i as irrelevant, constantly set to value.
func (m Mask) Fix(i int, value bool) Mask {
	m.Relevant = m.Relevant.With(i, false)
	if value {
		m.ConstTrue = m.ConstTrue.With(i, true)
		m.ConstFalse = m.ConstFalse.With(i, false)
	} else {
		m.ConstFalse = m.ConstFalse.With(i, true)
		m.ConstTrue = m.ConstTrue.With(i, false)
	}
	return m
}

// NumRelevant returns the number of relevant (non-masked) bits.
func (m Mask) NumRelevant() int {
	return bits.OnesCount64(uint64(m.Relevant))
}

// Expand re-materializes a full letter from a relevant-bits-only action:
// action enumerates only the relevant bits (packed low-to-high in the order
// the relevant bits appear in m.Relevant), and the irrelevant bits are
// filled in from the constant masks.
func (m Mask) Expand(action Letter) Letter {
	full := m.ConstTrue
	bit := 0
	for i := 0; i < MaxVars; i++ {
		if m.Relevant.Test(i) {
			if action.Test(bit) {
				full = full.With(i, true)
			}
			bit++
		}
	}
	return full
}

// Actions enumerates every relevant-bit combination as a compact Letter
// (one bit per relevant proposition, packed low-to-high), used by the arena
// builder to iterate over exactly the relevant input/output actions.
func (m Mask) Actions() []Letter {
	n := m.NumRelevant()
	if n == 0 {
		return []Letter{0}
	}
	out := make([]Letter, 1<<uint(n))
	for i := range out {
		out[i] = Letter(i)
	}
	return out
}
