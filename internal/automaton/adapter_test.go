package automaton

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
)

// fakeTranslator answers every query with a fixed per-letter table,
// recording how many times each state was queried so tests can assert the
// adapter never re-queries a state it has already resolved.
type fakeTranslator struct {
	mu      sync.Mutex
	queries map[int32]int
	table   []ScoredEdge
}

func (f *fakeTranslator) QuerySuccessors(leafIndex int, state int32) (LeafQueryResult, error) {
	f.mu.Lock()
	f.queries[state]++
	f.mu.Unlock()
	time.Sleep(time.Millisecond) // simulate translator latency
	return LeafQueryResult{
		PerLetter:    f.table,
		MaxColor:     1,
		DefaultColor: 1,
		NodeType:     Buchi,
		Parity:       color.Even,
	}, nil
}

func TestAdapterLookupBlocksThenCaches(t *testing.T) {
	require := require.New(t)

	tr := &fakeTranslator{
		queries: map[int32]int{},
		table: []ScoredEdge{
			{Successor: 0, Color: 0, Score: 0.5, Weight: 1},
			{Successor: 1, Color: 1, Score: 0.5, Weight: 1},
		},
	}
	a := NewAdapter(0, 1, tr)

	var wg sync.WaitGroup
	results := make([]ScoredEdge, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = a.Lookup(0, letter.Letter(0))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(ScoredEdge{Successor: 0, Color: 0, Score: 0.5, Weight: 1}, r)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	require.Equal(1, tr.queries[0], "concurrent lookups on the same state must coalesce into one translator query")
}

func TestAdapterRecordsMetadataOnce(t *testing.T) {
	require := require.New(t)

	tr := &fakeTranslator{queries: map[int32]int{}, table: []ScoredEdge{{Color: 0}}}
	a := NewAdapter(0, 0, tr)
	_ = a.Lookup(0, 0)
	require.True(a.metaSet)
	require.Equal(Buchi, a.NodeType)
	require.Equal(color.Even, a.Parity)
}

func TestAdapterUnknownTypeUpgradesToParity(t *testing.T) {
	require := require.New(t)

	tr := &unknownTypeTranslator{}
	a := NewAdapter(0, 0, tr)
	_ = a.Lookup(0, 0)
	require.Equal(ParityType, a.NodeType)
}

type unknownTypeTranslator struct{}

func (unknownTypeTranslator) QuerySuccessors(leafIndex int, state int32) (LeafQueryResult, error) {
	return LeafQueryResult{
		PerLetter:   []ScoredEdge{{Color: 0}},
		NodeType:    Weak,
		UnknownType: true,
	}, nil
}

func TestDecisionTreeCollapsesDontCareBits(t *testing.T) {
	require := require.New(t)

	// 3-bit alphabet where only bit 1 matters.
	table := make([]ScoredEdge, 8)
	for l := range table {
		if letter.Letter(l).Test(1) {
			table[l] = ScoredEdge{Successor: 1}
		} else {
			table[l] = ScoredEdge{Successor: 0}
		}
	}
	s := &successors{edges: table, tree: buildDecisionTree(table, 3)}
	for l := 0; l < 8; l++ {
		got := s.lookup(3, letter.Letter(l))
		want := table[l]
		require.Equal(want, got)
	}
}
