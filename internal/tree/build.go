package tree

import (
	"sort"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
)

// LeafSpec names one leaf automaton to wrap in a Node: its adapter plus the
// static alphabet remap computed from the decomposed DPA's per-leaf
// reference (global proposition bit -> local automaton bit, -1 if absent).
type LeafSpec struct {
	Adapter      *automaton.Adapter
	AlphabetMap  []int
	AlphabetSize int
	// MinLeafIndex is this leaf's position in the decomposed automaton's
	// flat leaf list, used only to break child-ordering ties.
	MinLeafIndex int
}

// Spec is the decomposed-automaton structure handed to Build: either a
// leaf reference or an inner node with its boolean connective and
// children, mirroring the external translator's labelled tree.
type Spec struct {
	IsLeaf   bool
	Leaf     LeafSpec
	Tag      Tag
	Children []Spec
}

// Build assembles a Spec into a live Node tree, computing each inner
// node's node type, parity, max_color, round_robin_size and parity_child
// flag bottom-up, following the child-ordering and LAR-sizing rules of
// spec.md §4.2. Building a leaf forces one throwaway query against its
// adapter (state 0, letter 0) purely to learn its node type/parity/
// max_color, since those are otherwise only discovered lazily on first
// Lookup.
func Build(s Spec) *Node {
	if s.IsLeaf {
		a := s.Leaf.Adapter
		a.Start()
		_ = a.Lookup(0, 0)
		return &Node{
			IsLeaf:       true,
			NodeType:     a.NodeType,
			Parity:       a.Parity,
			MaxColor:     a.MaxColor,
			Adapter:      a,
			AlphabetMap:  s.Leaf.AlphabetMap,
			AlphabetSize: s.Leaf.AlphabetSize,
		}
	}

	children := make([]*Node, len(s.Children))
	minLeafIndex := make([]int, len(s.Children))
	alphabetSize := make([]int, len(s.Children))
	for i, childSpec := range s.Children {
		children[i] = Build(childSpec)
		minLeafIndex[i] = minIndex(childSpec)
		alphabetSize[i] = maxAlphabetSize(childSpec)
	}

	order := make([]int, len(children))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if children[a].NodeType != children[b].NodeType {
			return children[a].NodeType < children[b].NodeType
		}
		if alphabetSize[a] != alphabetSize[b] {
			return alphabetSize[a] < alphabetSize[b]
		}
		return minLeafIndex[a] < minLeafIndex[b]
	})
	sortedChildren := make([]*Node, len(children))
	for i, idx := range order {
		sortedChildren[i] = children[idx]
	}
	children = sortedChildren

	nodeType := automaton.Weak
	parityChild := false
	var parityChildParity color.Parity
	var parityChildMaxColor color.Color
	roundRobinSize := 0

	for _, child := range children {
		switch child.NodeType {
		case automaton.ParityType:
			if s.Tag == Biconditional {
				parityChild = true
			} else if parityChild {
				panic("unsupported automaton tree: two non-biconditional parity children")
			} else {
				parityChild = true
				parityChildParity = child.Parity
				parityChildMaxColor = child.MaxColor
			}
		case automaton.Buchi:
			if s.Tag == Conjunction {
				roundRobinSize++
			} else if s.Tag == Biconditional {
				parityChild = true
			}
		case automaton.CoBuchi:
			if s.Tag == Disjunction {
				roundRobinSize++
			} else if s.Tag == Biconditional {
				parityChild = true
			}
		}
		nodeType = automaton.JoinNodeType(nodeType, child.NodeType)
	}

	parityChildIdx := 0
	if s.Tag == Biconditional {
		t1, t2 := children[0].NodeType, children[1].NodeType
		nodeType = automaton.JoinNodeTypeBiconditional(t1, t2)
		if parityChild {
			switch {
			case t1 == automaton.Weak:
				parityChildIdx = 1
			case t2 == automaton.Weak:
				parityChildIdx = 0
			case children[0].MaxColor < children[1].MaxColor:
				parityChildIdx = 1
			default:
				parityChildIdx = 0
			}
			parityChildParity = children[parityChildIdx].Parity
			parityChildMaxColor = children[parityChildIdx].MaxColor
		}
	}

	parityType := color.Even
	maxColor := color.Color(1)
	var d1, d2 color.Color

	switch nodeType {
	case automaton.ParityType:
		if s.Tag == Conjunction || s.Tag == Disjunction {
			if s.Tag == Conjunction {
				parityType = color.Odd
			} else {
				parityType = color.Even
			}
			if parityChild {
				if parityType != parityChildParity {
					parityChildMaxColor++
				}
				maxColor = parityChildMaxColor
				if roundRobinSize > 0 && maxColor%2 != 0 {
					maxColor++
				}
			} else {
				maxColor = 2
			}
		} else {
			if parityChild {
				d1 = children[1-parityChildIdx].MaxColor
				d2 = children[parityChildIdx].MaxColor
				p1 := children[1-parityChildIdx].Parity
				p2 := children[parityChildIdx].Parity

				if children[1-parityChildIdx].NodeType == automaton.Weak {
					maxColor = d2 + 1
					parityType = p2
					roundRobinSize = 0
				} else {
					maxColor = d1 + d2
					parityType = color.Parity((int(p1) + int(p2)) % 2)
					roundRobinSize = int(d1)
				}
			}
		}
	case automaton.Buchi:
		parityType = color.Even
	case automaton.CoBuchi:
		parityType = color.Odd
	}

	if s.Tag == Conjunction || s.Tag == Disjunction {
		return &Node{
			Tag:            s.Tag,
			NodeType:       nodeType,
			Parity:         parityType,
			MaxColor:       maxColor,
			Children:       children,
			RoundRobinSize: roundRobinSize,
			ParityChild:    parityChild,
			DP:             parityChildMaxColor,
		}
	}
	return &Node{
		Tag:            Biconditional,
		NodeType:       nodeType,
		Parity:         parityType,
		MaxColor:       maxColor,
		Children:       children,
		RoundRobinSize: roundRobinSize,
		ParityChild:    parityChild,
		ParityChildIdx: parityChildIdx,
		DP:             parityChildMaxColor,
		d1:             d1,
		d2:             d2,
	}
}

func minIndex(s Spec) int {
	if s.IsLeaf {
		return s.Leaf.MinLeafIndex
	}
	m := int(^uint(0) >> 1)
	for _, c := range s.Children {
		if v := minIndex(c); v < m {
			m = v
		}
	}
	return m
}

func maxAlphabetSize(s Spec) int {
	if s.IsLeaf {
		return s.Leaf.AlphabetSize
	}
	m := 0
	for _, c := range s.Children {
		if v := maxAlphabetSize(c); v > m {
			m = v
		}
	}
	return m
}
