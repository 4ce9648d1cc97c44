// Package algo is the distributed algorithm kernel layer (C7): every
// function here is generic over nothing but an iter.Contract[T], and knows
// how to partition a global range into the localities that hold it, ship a
// per-locality kernel to each, and combine the results according to one of
// the three patterns the runtime spec distinguishes — P-SEARCH (short-circuit
// search/compare), P-ELEMENTWISE (per-locality local op, no cross-locality
// combine), and P-REDUCE-OR-SCAN (local fold or local scan, then a
// caller-side combine or rebase pass). combine.go holds the shared plumbing
// every algorithm in the other files is built from.
package algo

import (
	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
	"golang.org/x/sync/errgroup"
)

// locRange pairs a locality with its non-empty local sub-range of whatever
// global range is currently being processed.
type locRange struct {
	Loc rt.Locality
	R   iter.Range
}

// nonEmptyLocalRanges is the partition step every algorithm starts from: the
// ordered, non-empty (locality, local range) pairs covering [begin, end).
func nonEmptyLocalRanges[T any](c iter.Contract[T], begin, end int) []locRange {
	locs := c.Localities(begin, end).All()
	out := make([]locRange, 0, len(locs))
	for _, loc := range locs {
		r := c.LocalRange(loc, begin, end)
		if !r.Empty() {
			out = append(out, locRange{loc, r})
		}
	}
	return out
}

// sliceAt returns s[offset : offset+n], clamped to s's bounds — used to pull
// a second range's aligned slice out of an iter.Gather result at the
// "alignment distance" of spec.md §9: the offset that advances the second
// range's starting point by distance(global_begin_1, local_begin_1).
func sliceAt[T any](s []T, offset, n int) []T {
	lo, hi := offset, offset+n
	if lo < 0 {
		lo = 0
	}
	if hi > len(s) {
		hi = len(s)
	}
	if hi < lo {
		hi = lo
	}
	return s[lo:hi]
}

// reduceLike runs localOp at every locality holding part of [begin, end) and
// combines the results left-to-right in locality order with combine — the
// P-REDUCE-OR-SCAN reduction half (reduce, accumulate, count, min/max,
// inner_product, transform_reduce). Under Sequential, each locality is
// dispatched and waited on before the next starts (deterministic, combine
// need only be associative). Under Parallel, every locality is dispatched
// under one handle and waited on together, then folded in locality order on
// the caller (also requires only associativity, never commutativity, since
// the fold itself is always done in locality order).
func reduceLike[T, Out any](c iter.Contract[T], begin, end int, init Out, policy rt.Policy, localOp func(loc rt.Locality, r iter.Range) Out, combine func(acc, x Out) Out) (Out, error) {
	parts := nonEmptyLocalRanges(c, begin, end)
	if len(parts) == 0 {
		return init, nil
	}
	if policy == rt.Parallel {
		results := make([]Out, len(parts))
		h := rt.NewHandle()
		for i, p := range parts {
			i, p := i, p
			if err := rt.CallAtAsync(h, p.Loc, func(_ struct{}) Out { return localOp(p.Loc, p.R) }, struct{}{}, &results[i]); err != nil {
				h.WaitForCompletion() //nolint:errcheck
				return init, err
			}
		}
		if err := h.WaitForCompletion(); err != nil {
			return init, err
		}
		acc := init
		for _, r := range results {
			acc = combine(acc, r)
		}
		return acc, nil
	}
	acc := init
	for _, p := range parts {
		local, err := rt.CallAt(p.Loc, func(_ struct{}) Out { return localOp(p.Loc, p.R) }, struct{}{})
		if err != nil {
			return init, err
		}
		acc = combine(acc, local)
	}
	return acc, nil
}

// searchFirst runs localOp at every locality holding part of [begin, end);
// localOp returns noMatch when its slice has no terminating result. Under
// Sequential it short-circuits: localities after the first match are never
// dispatched. Under Parallel every locality is dispatched and waited on
// together (no cancellation, per spec.md §5), then the results are scanned
// in locality order for the first match — so ties resolve identically to the
// sequential case.
func searchFirst[T any](c iter.Contract[T], begin, end int, policy rt.Policy, noMatch int, localOp func(loc rt.Locality, r iter.Range) int) (int, error) {
	parts := nonEmptyLocalRanges(c, begin, end)
	if policy == rt.Parallel {
		results := make([]int, len(parts))
		for i := range results {
			results[i] = noMatch
		}
		h := rt.NewHandle()
		for i, p := range parts {
			i, p := i, p
			if err := rt.CallAtAsync(h, p.Loc, func(_ struct{}) int { return localOp(p.Loc, p.R) }, struct{}{}, &results[i]); err != nil {
				h.WaitForCompletion() //nolint:errcheck
				return noMatch, err
			}
		}
		if err := h.WaitForCompletion(); err != nil {
			return noMatch, err
		}
		for _, r := range results {
			if r != noMatch {
				return r, nil
			}
		}
		return noMatch, nil
	}
	for _, p := range parts {
		r, err := rt.CallAt(p.Loc, func(_ struct{}) int { return localOp(p.Loc, p.R) }, struct{}{})
		if err != nil {
			return noMatch, err
		}
		if r != noMatch {
			return r, nil
		}
	}
	return noMatch, nil
}

// runElementwiseArg is the P-ELEMENTWISE dispatch shape used by Fill,
// ReplaceIf, and friends: a plain, JSON-marshalable argument arg is shipped
// (copied, per the dispatch substrate's argument-isolation policy) to every
// locality holding part of [begin, end), with no result to combine — the
// operation is applied purely for its effect on c.
func runElementwiseArg[T, A any](c iter.Contract[T], begin, end int, policy rt.Policy, arg A, localOp func(loc rt.Locality, r iter.Range, a A)) error {
	parts := nonEmptyLocalRanges(c, begin, end)
	if policy == rt.Parallel {
		h := rt.NewHandle()
		for _, p := range parts {
			p := p
			if err := rt.ExecuteAtAsync(h, p.Loc, func(a A) { localOp(p.Loc, p.R, a) }, arg); err != nil {
				h.WaitForCompletion() //nolint:errcheck
				return err
			}
		}
		return h.WaitForCompletion()
	}
	for _, p := range parts {
		if err := rt.ExecuteAt(p.Loc, func(a A) { localOp(p.Loc, p.R, a) }, arg); err != nil {
			return err
		}
	}
	return nil
}

// runElementwise is runElementwiseArg without a payload, for operations
// (ForEach, Transform) whose closure needs nothing beyond what it already
// captures.
func runElementwise[T any](c iter.Contract[T], begin, end int, policy rt.Policy, localOp func(loc rt.Locality, r iter.Range)) error {
	return runElementwiseArg[T, struct{}](c, begin, end, policy, struct{}{}, func(loc rt.Locality, r iter.Range, _ struct{}) { localOp(loc, r) })
}

// runDispatch runs fn(i, parts[i]) for every part, either one at a time in
// order (Sequential) or concurrently (Parallel) — for algorithms whose
// per-locality work is already fully independent (its inputs precomputed by
// the caller) and so needs nothing from rt.Handle's bookkeeping beyond
// ordinary goroutine fan-out.
func runDispatch(parts []locRange, policy rt.Policy, fn func(i int, p locRange) error) error {
	if policy == rt.Parallel {
		var g errgroup.Group
		for i, p := range parts {
			i, p := i, p
			g.Go(func() error { return fn(i, p) })
		}
		return g.Wait()
	}
	for i, p := range parts {
		if err := fn(i, p); err != nil {
			return err
		}
	}
	return nil
}

// anyOfImpl is searchFirst's boolean twin, used by AnyOf (and, via De
// Morgan's law, AllOf/NoneOf): short-circuits under Sequential, launches
// every locality under Parallel and ORs the results.
func anyOfImpl[T any](c iter.Contract[T], begin, end int, policy rt.Policy, localPred func(loc rt.Locality, r iter.Range) bool) (bool, error) {
	parts := nonEmptyLocalRanges(c, begin, end)
	if policy == rt.Parallel {
		results := make([]bool, len(parts))
		h := rt.NewHandle()
		for i, p := range parts {
			i, p := i, p
			if err := rt.CallAtAsync(h, p.Loc, func(_ struct{}) bool { return localPred(p.Loc, p.R) }, struct{}{}, &results[i]); err != nil {
				h.WaitForCompletion() //nolint:errcheck
				return false, err
			}
		}
		if err := h.WaitForCompletion(); err != nil {
			return false, err
		}
		for _, r := range results {
			if r {
				return true, nil
			}
		}
		return false, nil
	}
	for _, p := range parts {
		r, err := rt.CallAt(p.Loc, func(_ struct{}) bool { return localPred(p.Loc, p.R) }, struct{}{})
		if err != nil {
			return false, err
		}
		if r {
			return true, nil
		}
	}
	return false, nil
}
