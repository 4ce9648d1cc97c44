package algo

import (
	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// AnyOf reports whether pred holds for any element of c in [begin, end).
func AnyOf[T any](c iter.Contract[T], begin, end int, pred func(T) bool, policy ...rt.Policy) (bool, error) {
	return anyOfImpl(c, begin, end, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) bool {
		for i := r.Lo; i < r.Hi; i++ {
			if pred(c.At(loc, i)) {
				return true
			}
		}
		return false
	})
}

// AllOf reports whether pred holds for every element of c in [begin, end).
// An empty range vacuously satisfies AllOf, matching the combination-rules
// table's logical-AND default over zero locality results.
func AllOf[T any](c iter.Contract[T], begin, end int, pred func(T) bool, policy ...rt.Policy) (bool, error) {
	any, err := AnyOf(c, begin, end, func(x T) bool { return !pred(x) }, policy...)
	return !any, err
}

// NoneOf reports whether pred holds for no element of c in [begin, end).
func NoneOf[T any](c iter.Contract[T], begin, end int, pred func(T) bool, policy ...rt.Policy) (bool, error) {
	any, err := AnyOf(c, begin, end, pred, policy...)
	return !any, err
}

// FindIf returns the global index of the first element in [begin, end)
// satisfying pred, or end if none does.
func FindIf[T any](c iter.Contract[T], begin, end int, pred func(T) bool, policy ...rt.Policy) (int, error) {
	return searchFirst(c, begin, end, rt.PolicyOrDefault(policy), end, func(loc rt.Locality, r iter.Range) int {
		for i := r.Lo; i < r.Hi; i++ {
			if pred(c.At(loc, i)) {
				return c.GlobalIndex(loc, i)
			}
		}
		return end
	})
}

// FindIfNot delegates to FindIf with the logical negation of pred, per
// spec.md §4.7.
func FindIfNot[T any](c iter.Contract[T], begin, end int, pred func(T) bool, policy ...rt.Policy) (int, error) {
	return FindIf(c, begin, end, func(x T) bool { return !pred(x) }, policy...)
}

// Find returns the global index of the first element in [begin, end) equal
// to target, or end if none is.
func Find[T comparable](c iter.Contract[T], begin, end int, target T, policy ...rt.Policy) (int, error) {
	return FindIf(c, begin, end, func(x T) bool { return x == target }, policy...)
}
