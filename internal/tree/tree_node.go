package tree

import (
	"math"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/pstate"
)

const logOneHalf = -0.6931471805599453 // math.Log(0.5)

// innerSuccessor implements spec.md §4.2's "successor step" for conjunction
// and disjunction nodes, ported from
// original_source/src/aut/ParityAutomatonTreeNode.cc.
func (n *Node) innerSuccessor(state, newState pstate.State, l letter.Letter) ColorScore {
	if n.isBottom(state) {
		n.paint(newState, pstate.Bottom, pstate.NoneBottom)
		return ColorScore{color.Color(n.Parity.Dual()), 0.0, 1.0}
	}
	if n.isTop(state) {
		n.paint(newState, pstate.Top, pstate.NoneTop)
		return ColorScore{color.Color(n.Parity), 1.0, 1.0}
	}

	roundRobinIdx := n.counterIndex
	minParityIdx := n.counterIndex
	roundRobinCounter := 0
	if n.RoundRobinSize > 1 {
		roundRobinCounter = int(state[roundRobinIdx])
		minParityIdx++
	}
	minParity := n.DP
	if n.RoundRobinSize > 0 && n.ParityChild {
		minParity -= color.Color(state[minParityIdx])
	}

	buchiIndex := 0
	activeChildren := 0

	maxWeakColor := color.Color(0)
	minWeakColor := color.Color(1)
	minBuchiColor := color.Color(1)

	score := 0.0
	weights := 0.0

	for _, child := range n.Children {
		cs := child.Successor(state, newState, l)
		childColor := cs.Color
		childScore := cs.Score
		childWeight := cs.Weight

		if child.isBottom(newState) {
			if n.Tag == Conjunction {
				n.paint(newState, pstate.Bottom, pstate.NoneBottom)
				return ColorScore{color.Color(n.Parity.Dual()), 0.0, 1.0}
			}
		} else if child.isTop(newState) {
			if n.Tag == Disjunction {
				n.paint(newState, pstate.Top, pstate.NoneTop)
				return ColorScore{color.Color(n.Parity), 1.0, 1.0}
			}
		} else {
			activeChildren++
			if n.Tag == Conjunction {
				childWeight *= math.Log(childScore) / logOneHalf
			} else {
				childWeight *= math.Log(1.0-childScore) / logOneHalf
			}
		}

		increaseScore, decreaseScore := false, false
		switch child.NodeType {
		case automaton.Weak:
			if childColor > maxWeakColor {
				maxWeakColor = childColor
			}
			if childColor < minWeakColor {
				minWeakColor = childColor
			}
		case automaton.Buchi, automaton.CoBuchi:
			isRoundRobinChild := (n.Tag == Conjunction && child.NodeType == automaton.Buchi) ||
				(n.Tag == Disjunction && child.NodeType == automaton.CoBuchi)
			if isRoundRobinChild {
				if childColor == 0 && roundRobinCounter == buchiIndex {
					if child.NodeType == automaton.Buchi {
						increaseScore = true
					} else {
						decreaseScore = true
					}
					roundRobinCounter++
				}
				buchiIndex++
			} else if childColor < minBuchiColor {
				minBuchiColor = childColor
			}
		case automaton.ParityType:
			if n.Parity == child.Parity {
				if childColor < minParity {
					minParity = childColor
					if int(minParity)%2 == int(n.Parity) {
						increaseScore = true
					} else {
						decreaseScore = true
					}
				}
			} else if childColor+1 < minParity {
				minParity = childColor + 1
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
		if n.Tag == Conjunction {
			n.paint(newState, pstate.Top, pstate.NoneTop)
			return ColorScore{color.Color(n.Parity), 1.0, 1.0}
		}
		n.paint(newState, pstate.Bottom, pstate.NoneBottom)
		return ColorScore{color.Color(n.Parity.Dual()), 0.0, 1.0}
	}

	score /= weights

	var c color.Color
	reset := false

	switch {
	case n.Tag == Conjunction && maxWeakColor != 0:
		reset = true
		c = color.Color(n.Parity.Dual())
	case n.Tag == Disjunction && minWeakColor == 0:
		reset = true
		c = color.Color(n.Parity)
	case minBuchiColor == 0:
		reset = true
		c = 0
	case roundRobinCounter == n.RoundRobinSize:
		reset = true
		if n.ParityChild {
			c = minParity
		} else if n.Tag == Conjunction {
			c = color.Color(n.Parity)
		} else {
			c = color.Color(n.Parity.Dual())
		}
	default:
		c = n.MaxColor
	}

	if reset {
		roundRobinCounter = 0
		minParity = n.DP
	}
	if n.RoundRobinSize > 1 {
		newState[roundRobinIdx] = pstate.Slot(roundRobinCounter)
	}
	if n.RoundRobinSize > 0 && n.ParityChild {
		newState[minParityIdx] = pstate.Slot(n.DP - minParity)
	}
	newState[n.stateIndex] = pstate.None
	return ColorScore{c, score, weights}
}
