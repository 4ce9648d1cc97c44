package algo

import (
	"sync"

	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// ForEach applies fn to every element of c in [begin, end), for side effects
// visible through anything fn itself closes over — the elements of c are
// passed by value, so mutating the argument inside fn does not write back to
// c (use ForEachMut or Transform for that).
func ForEach[T any](c iter.Contract[T], begin, end int, fn func(T), policy ...rt.Policy) error {
	return runElementwise(c, begin, end, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) {
		for i := r.Lo; i < r.Hi; i++ {
			fn(c.At(loc, i))
		}
	})
}

// ForEachMut applies fn to every element of c in [begin, end) in place: fn's
// return value is written back via SetAt.
func ForEachMut[T any](c iter.Contract[T], begin, end int, fn func(T) T, policy ...rt.Policy) error {
	return runElementwise(c, begin, end, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) {
		for i := r.Lo; i < r.Hi; i++ {
			c.SetAt(loc, i, fn(c.At(loc, i)))
		}
	})
}

// Fill sets every element of c in [begin, end) to val.
func Fill[T any](c iter.Contract[T], begin, end int, val T, policy ...rt.Policy) error {
	return runElementwiseArg(c, begin, end, rt.PolicyOrDefault(policy), val, func(loc rt.Locality, r iter.Range, v T) {
		for i := r.Lo; i < r.Hi; i++ {
			c.SetAt(loc, i, v)
		}
	})
}

// Generate sets c[k] = gen(k) for every global index k in [begin, end). Unlike
// the source's stateful generator object (invoked "phantom" times on every
// locality but the first to fast-forward it to the right point in sequence),
// gen here is a pure function of the global index — it needs no
// fast-forwarding and is safe to call concurrently from every locality's
// kernel at once, under either policy, with identical results (Property 8).
func Generate[T any](c iter.Contract[T], begin, end int, gen func(k int) T, policy ...rt.Policy) error {
	return runElementwise(c, begin, end, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) {
		for i := r.Lo; i < r.Hi; i++ {
			c.SetAt(loc, i, gen(c.GlobalIndex(loc, i)))
		}
	})
}

// SequentialGenerator adapts a classic stateful, no-argument generator (each
// call produces the next value in sequence, starting from whatever state next
// closes over) into the pure func(k int) T shape Generate requires, by
// memoizing calls to next in global-index order. Calls to next are
// serialized by a mutex, and values produced ahead of the index asked for are
// kept until that index is requested, so index k always receives next's k-th
// value under either policy. Under Parallel a locality may ask for a high
// index first, and every lower index's value is then held in memory until
// its own locality asks for it.
func SequentialGenerator[T any](next func() T) func(k int) T {
	var mu sync.Mutex
	memo := map[int]T{}
	highWater := -1
	return func(k int) T {
		mu.Lock()
		defer mu.Unlock()
		for highWater < k {
			highWater++
			memo[highWater] = next()
		}
		v := memo[k]
		delete(memo, k)
		return v
	}
}

// Replace sets every element of c in [begin, end) equal to old to new.
func Replace[T comparable](c iter.Contract[T], begin, end int, old, new T, policy ...rt.Policy) error {
	return ReplaceIf(c, begin, end, func(x T) bool { return x == old }, new, policy...)
}

type replaceIfArg[T any] struct {
	New T
}

// ReplaceIf sets every element of c in [begin, end) satisfying pred to new.
func ReplaceIf[T any](c iter.Contract[T], begin, end int, pred func(T) bool, new T, policy ...rt.Policy) error {
	return runElementwiseArg(c, begin, end, rt.PolicyOrDefault(policy), replaceIfArg[T]{new}, func(loc rt.Locality, r iter.Range, a replaceIfArg[T]) {
		for i := r.Lo; i < r.Hi; i++ {
			if pred(c.At(loc, i)) {
				c.SetAt(loc, i, a.New)
			}
		}
	})
}

// Transform writes op(c[k]) into out at the same global index k, for every k
// in [begin, end). It assumes out partitions [begin, end) into the same
// per-locality local-range lengths as c (true of any two containers built
// with the same partition scheme, e.g. two vector.Vector[T] of equal size) —
// general two-container realignment is reserved for operations that actually
// need it (CopyIf), since it costs an extra gather/scatter pass Transform
// itself does not need.
func Transform[T, U any](c iter.Contract[T], begin, end int, out iter.Contract[U], op func(T) U, policy ...rt.Policy) error {
	return runElementwise(c, begin, end, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) {
		or := out.LocalRange(loc, begin, end)
		for i := 0; i < r.Len(); i++ {
			out.SetAt(loc, or.Lo+i, op(c.At(loc, r.Lo+i)))
		}
	})
}

// TransformInPlace is Transform with c as its own output.
func TransformInPlace[T any](c iter.Contract[T], begin, end int, op func(T) T, policy ...rt.Policy) error {
	return ForEachMut(c, begin, end, op, policy...)
}
