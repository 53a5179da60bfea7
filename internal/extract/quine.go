package extract

import "github.com/tp971/strix/internal/bdd"

// mergeCubes repeatedly combines pairs of cubes that differ in exactly
// one bit (one 0, the other 1, every other position identical) into a
// single cube with that bit set to don't-care, the classic
// Quine-McCluskey adjacency-merge step, grounded on
// original_source/src/util/Quine.h's combine-and-reduce loop over
// SpecSeq candidates. Used as a post-extraction size-reduction pass over
// one machine state's transition list so walkMealy/walkMoore don't leave
// behind adjacent input cubes a single merged cube could cover, which
// matters most for the KISS/AIGER writers' output size.
func mergeCubes(cubes []bdd.Cube) []bdd.Cube {
	if len(cubes) <= 1 {
		return cubes
	}
	for {
		merged := false
		used := make([]bool, len(cubes))
		var next []bdd.Cube
		for i := 0; i < len(cubes); i++ {
			if used[i] {
				continue
			}
			combinedAny := false
			for j := i + 1; j < len(cubes); j++ {
				if used[j] {
					continue
				}
				if c, ok := combine(cubes[i], cubes[j]); ok {
					next = append(next, c)
					used[i], used[j] = true, true
					merged = true
					combinedAny = true
					break
				}
			}
			if !combinedAny && !used[i] {
				next = append(next, cubes[i])
				used[i] = true
			}
		}
		cubes = next
		if !merged {
			return cubes
		}
	}
}

// combine returns the merge of a and b if they differ in exactly one
// bit (and agree, specified-vs-specified, everywhere else), setting that
// bit to don't-care in the result.
func combine(a, b bdd.Cube) (bdd.Cube, bool) {
	if len(a) != len(b) {
		return nil, false
	}
	diff := -1
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if a[i] < 0 || b[i] < 0 {
			return nil, false // a don't-care never counts as the sole difference
		}
		if diff >= 0 {
			return nil, false
		}
		diff = i
	}
	if diff < 0 {
		return nil, false
	}
	out := make(bdd.Cube, len(a))
	copy(out, a)
	out[diff] = -1
	return out, true
}
