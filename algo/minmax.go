package algo

import (
	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// extremum pairs a value with its global index, so ties can be broken by
// "first occurrence in locality order" the same way under either policy.
type extremum[T any] struct {
	Idx   int
	Val   T
	Valid bool
}

// localExtreme scans loc's local range and returns the extremum chosen by
// better(candidate, current) — better reports whether candidate should
// replace current as the running extremum.
func localExtreme[T any](c iter.Contract[T], loc rt.Locality, r iter.Range, better func(candidate, current T) bool) extremum[T] {
	var best extremum[T]
	for i := r.Lo; i < r.Hi; i++ {
		v := c.At(loc, i)
		if !best.Valid || better(v, best.Val) {
			best = extremum[T]{Idx: c.GlobalIndex(loc, i), Val: v, Valid: true}
		}
	}
	return best
}

func combineExtreme[T any](better func(candidate, current T) bool) func(acc, x extremum[T]) extremum[T] {
	return func(acc, x extremum[T]) extremum[T] {
		if !x.Valid {
			return acc
		}
		if !acc.Valid || better(x.Val, acc.Val) {
			return x
		}
		return acc
	}
}

// MinElement returns the global index of the first element of c in
// [begin, end) that compares least under less, or end if the range is
// empty.
func MinElement[T any](c iter.Contract[T], begin, end int, less func(a, b T) bool, policy ...rt.Policy) (int, error) {
	better := func(candidate, current T) bool { return less(candidate, current) }
	result, err := reduceLike(c, begin, end, extremum[T]{}, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) extremum[T] {
		return localExtreme(c, loc, r, better)
	}, combineExtreme[T](better))
	if err != nil || !result.Valid {
		return end, err
	}
	return result.Idx, nil
}

// MaxElement returns the global index of the first element of c in
// [begin, end) that compares greatest under less, or end if the range is
// empty.
func MaxElement[T any](c iter.Contract[T], begin, end int, less func(a, b T) bool, policy ...rt.Policy) (int, error) {
	better := func(candidate, current T) bool { return less(current, candidate) }
	result, err := reduceLike(c, begin, end, extremum[T]{}, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) extremum[T] {
		return localExtreme(c, loc, r, better)
	}, combineExtreme[T](better))
	if err != nil || !result.Valid {
		return end, err
	}
	return result.Idx, nil
}

// MinMaxElement returns both MinElement's and MaxElement's indices. It runs
// MinElement and then MaxElement, so every locality's range is visited twice;
// it does not find both extremes in a single pass.
func MinMaxElement[T any](c iter.Contract[T], begin, end int, less func(a, b T) bool, policy ...rt.Policy) (minIdx, maxIdx int, err error) {
	minIdx, err = MinElement(c, begin, end, less, policy...)
	if err != nil {
		return end, end, err
	}
	maxIdx, err = MaxElement(c, begin, end, less, policy...)
	if err != nil {
		return end, end, err
	}
	return minIdx, maxIdx, nil
}
