package algo

import (
	"fmt"

	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// Equal reports whether c1's [begin1,end1) and c2's [begin2,end2) hold equal
// elements pairwise, aligned by the Align invariant (Property 7): the k-th
// local element of range 1 is always paired with the k-th global element of
// range 2. The two ranges must be the same length — per spec.md §4.7 this is
// undefined behavior in the source when the second range is shorter; this
// implementation turns that into an explicit error instead of reading
// past the gathered slice.
//
// Equal is P-SEARCH (spec.md §4.7), not P-REDUCE-OR-SCAN: the first locality
// to find a mismatch is a terminating result, so under the Sequential policy
// it short-circuits and never dispatches to the remaining localities.
func Equal[T comparable](c1 iter.Contract[T], begin1, end1 int, c2 iter.Contract[T], begin2, end2 int, policy ...rt.Policy) (bool, error) {
	if end1-begin1 != end2-begin2 {
		return false, fmt.Errorf("algo: Equal: range lengths differ (%d vs %d)", end1-begin1, end2-begin2)
	}
	second, err := iter.Gather(c2, begin2, end2)
	if err != nil {
		return false, err
	}
	mismatch, err := anyOfImpl(c1, begin1, end1, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) bool {
		offset := c1.GlobalIndex(loc, r.Lo) - begin1
		sub := sliceAt(second, offset, r.Len())
		if len(sub) != r.Len() {
			return true
		}
		for i := r.Lo; i < r.Hi; i++ {
			if c1.At(loc, i) != sub[i-r.Lo] {
				return true
			}
		}
		return false
	})
	if err != nil {
		return false, err
	}
	return !mismatch, nil
}

// LexicographicalCompare returns -1, 0, or 1 as c1's [begin1,end1) is less
// than, equal to, or greater than c2's [begin2,end2) under less, using both
// explicit ends (ranges need not be the same length). Per the
// combination-rules table, each locality's chunk of range 1 produces a
// decisive result (-1 or 1) or 0 ("equal so far, defer to the next
// locality").
//
// This is P-SEARCH, not P-REDUCE-OR-SCAN: searchFirst's "first non-noMatch
// result in locality order" is exactly the decisive-result rule, and under
// the Sequential policy it short-circuits at the first locality that decides
// the comparison, the same way a plain sequential lexicographical compare
// would stop at the first differing element.
func LexicographicalCompare[T any](c1 iter.Contract[T], begin1, end1 int, c2 iter.Contract[T], begin2, end2 int, less func(a, b T) bool, policy ...rt.Policy) (int, error) {
	second, err := iter.Gather(c2, begin2, end2)
	if err != nil {
		return 0, err
	}
	len2 := end2 - begin2
	result, err := searchFirst(c1, begin1, end1, rt.PolicyOrDefault(policy), 0, func(loc rt.Locality, r iter.Range) int {
		offset := c1.GlobalIndex(loc, r.Lo) - begin1
		n := r.Len()
		if offset >= len2 {
			return 1 // range 2 already exhausted: range 1 has more elements here
		}
		avail := len2 - offset
		cmpN := n
		if avail < cmpN {
			cmpN = avail
		}
		sub := sliceAt(second, offset, cmpN)
		for i := 0; i < cmpN; i++ {
			a := c1.At(loc, r.Lo+i)
			b := sub[i]
			if less(a, b) {
				return -1
			}
			if less(b, a) {
				return 1
			}
		}
		if n > avail {
			return 1 // range 1's chunk outran what was left of range 2
		}
		return 0
	})
	if err != nil {
		return 0, err
	}
	if result != 0 {
		return result, nil
	}
	len1 := end1 - begin1
	switch {
	case len1 < len2:
		return -1, nil
	case len1 > len2:
		return 1, nil
	default:
		return 0, nil
	}
}
