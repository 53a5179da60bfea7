package tree

import (
	"math"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/pstate"
)

// biconditionalSuccessor implements the two-child "biconditional" combinator
// (one child's acceptance tracks the other's parity progress), ported from
// original_source/src/aut/ParityAutomatonTreeBiconditionalNode.cc.
func (n *Node) biconditionalSuccessor(state, newState pstate.State, l letter.Letter) ColorScore {
	if n.isBottom(state) {
		n.paint(newState, pstate.Bottom, pstate.NoneBottom)
		return ColorScore{color.Color(n.Parity.Dual()), 0.0, 1.0}
	}
	if n.isTop(state) {
		n.paint(newState, pstate.Top, pstate.NoneTop)
		return ColorScore{color.Color(n.Parity), 1.0, 1.0}
	}

	minParity := n.DP
	for i := 0; i < n.RoundRobinSize; i++ {
		v := n.DP - color.Color(state[n.counterIndex+i])
		if v < minParity {
			minParity = v
		}
	}

	activeChildren := 0
	bottom, top := false, false
	var childColors [2]color.Color

	minScore, maxScore := 1.0, 0.0
	score, weights := 0.0, 0.0

	for i, child := range n.Children {
		cs := child.Successor(state, newState, l)
		childColor := cs.Color
		childScore, childWeight := cs.Score, cs.Weight

		if childScore < minScore {
			minScore = childScore
		}
		if childScore > maxScore {
			maxScore = childScore
		}
		childColors[i] = childColor

		if child.isBottom(newState) {
			bottom = true
		} else if child.isTop(newState) {
			top = true
		} else {
			activeChildren++
			a, b := math.Log(childScore), math.Log(1.0-childScore)
			m := a
			if b < m {
				m = b
			}
			childWeight *= m / logOneHalf
		}

		increaseScore, decreaseScore := false, false
		if i == n.ParityChildIdx {
			if childColor < minParity {
				minParity = childColor
				if int(minParity)%2 == int(n.Parity) {
					increaseScore = true
				} else {
					decreaseScore = true
				}
			}
		}

		if increaseScore {
			childScore = 0.75 + 0.25*childScore
			childWeight *= 2.0
		} else if decreaseScore {
			childScore = 0.25 * childScore
			childWeight *= 2.0
		}
		score += childScore * childWeight
		weights += childWeight
	}

	if activeChildren == 0 {
		if bottom && top {
			n.paint(newState, pstate.Bottom, pstate.NoneBottom)
			return ColorScore{color.Color(n.Parity.Dual()), 0.0, 1.0}
		}
		n.paint(newState, pstate.Top, pstate.NoneTop)
		return ColorScore{color.Color(n.Parity), 1.0, 1.0}
	}

	score /= weights
	newState[n.stateIndex] = pstate.None

	if n.ParityChild {
		other := 1 - n.ParityChildIdx
		c1 := childColors[other]
		c2 := childColors[n.ParityChildIdx]

		if n.Children[other].NodeType == automaton.Weak {
			return ColorScore{c1 + c2, score, weights}
		}

		var result color.Color
		if c1 < n.d1 {
			bound := n.d2 - color.Color(state[n.counterIndex+int(c1)])
			m := c2
			if bound < m {
				m = bound
			}
			result = c1 + m
		} else {
			result = c1 + c2
		}

		for i := 0; i < n.RoundRobinSize; i++ {
			if int(c1) <= i {
				newState[n.counterIndex+i] = 0
			} else {
				bound := n.d2 - color.Color(state[n.counterIndex+i])
				m := c2
				if bound < m {
					m = bound
				}
				newState[n.counterIndex+i] = pstate.Slot(n.d2 - m)
			}
		}
		return ColorScore{result, score, weights}
	}

	// only weak children: the combinator's color is a pure equality test.
	if childColors[0] == childColors[1] {
		return ColorScore{color.Color(n.Parity), score, weights}
	}
	return ColorScore{color.Color(n.Parity.Dual()), score, weights}
}
