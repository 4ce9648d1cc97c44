package algo

import (
	"fmt"

	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// Copy writes c[k] into out[k] for every global index k in [begin, end) — a
// Transform with the identity function, assuming the same matching-partition
// constraint Transform documents.
func Copy[T any](c iter.Contract[T], begin, end int, out iter.Contract[T], policy ...rt.Policy) error {
	return Transform(c, begin, end, out, func(x T) T { return x }, policy...)
}

// CopyIf writes every element of c in [begin, end) satisfying pred into out,
// starting at out's global index outBegin, preserving relative order, and
// returns the count written. Because each matching element's output position
// depends on how many earlier elements (possibly on other localities)
// matched, this cannot be computed by an independent per-locality kernel the
// way Transform is: instead, Phase A gathers every locality's matches (and
// its count) with one ordinary, non-nested CallAt per locality, the caller
// then computes each locality's prefix offset, and Phase B places the
// concatenated result with iter.Scatter. A kernel cannot do this itself via a
// second, nested dispatch back into out without risking deadlock against its
// own locality's single-worker dispatch queue, so this is not the spec's
// nested-object pattern P-ELEMENTWISE or P-REDUCE-OR-SCAN but a third,
// two-phase shape specific to count-dependent placement.
func CopyIf[T any](c iter.Contract[T], begin, end int, out iter.Contract[T], outBegin int, pred func(T) bool, policy ...rt.Policy) (int, error) {
	parts := nonEmptyLocalRanges(c, begin, end)
	matches := make([][]T, len(parts))

	collect := func(i int, p locRange) error {
		m, err := rt.CallAt(p.Loc, func(r iter.Range) []T {
			var out []T
			for i := r.Lo; i < r.Hi; i++ {
				if v := c.At(p.Loc, i); pred(v) {
					out = append(out, v)
				}
			}
			return out
		}, p.R)
		if err != nil {
			return err
		}
		matches[i] = m
		return nil
	}
	if err := runDispatch(parts, rt.PolicyOrDefault(policy), collect); err != nil {
		return 0, err
	}

	total := 0
	for _, m := range matches {
		total += len(m)
	}
	flat := make([]T, 0, total)
	for _, m := range matches {
		flat = append(flat, m...)
	}
	if err := iter.Scatter(out, outBegin, flat); err != nil {
		return 0, fmt.Errorf("algo: CopyIf: %w", err)
	}
	return total, nil
}

// Count returns the number of elements of c in [begin, end) equal to target.
func Count[T comparable](c iter.Contract[T], begin, end int, target T, policy ...rt.Policy) (int, error) {
	return CountIf(c, begin, end, func(x T) bool { return x == target }, policy...)
}

// CountIf returns the number of elements of c in [begin, end) satisfying pred.
func CountIf[T any](c iter.Contract[T], begin, end int, pred func(T) bool, policy ...rt.Policy) (int, error) {
	return reduceLike(c, begin, end, 0, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) int {
		n := 0
		for i := r.Lo; i < r.Hi; i++ {
			if pred(c.At(loc, i)) {
				n++
			}
		}
		return n
	}, func(acc, x int) int { return acc + x })
}
