package solver

import "golang.org/x/sync/errgroup"

// parallelFor runs fn(i) for i in [0, n) over a bounded worker pool, the
// Go analogue of PGSISolver.cc's "#pragma omp parallel for" sweeps: each
// node's distance-vector slice is disjoint, so sharding by contiguous
// range needs no synchronization beyond the final join.
func parallelFor(n int32, workers int, fn func(i int32)) {
	if workers <= 1 || n <= 1 {
		for i := int32(0); i < n; i++ {
			fn(i)
		}
		return
	}
	if int32(workers) > n {
		workers = int(n)
	}

	var g errgroup.Group
	chunk := (n + int32(workers) - 1) / int32(workers)
	for w := 0; w < workers; w++ {
		lo := int32(w) * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}
