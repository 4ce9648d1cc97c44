package algo

import (
	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// Reduce folds c's elements in [begin, end) left-to-right (in locality order)
// through op, starting from init. op must be associative; it need not be
// commutative, since the fold order is always locality order regardless of
// policy.
func Reduce[T any](c iter.Contract[T], begin, end int, init T, op func(acc, x T) T, policy ...rt.Policy) (T, error) {
	return reduceLike(c, begin, end, init, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) T {
		var local T
		first := true
		for i := r.Lo; i < r.Hi; i++ {
			v := c.At(loc, i)
			if first {
				local = v
				first = false
				continue
			}
			local = op(local, v)
		}
		if first {
			var zero T
			return zero
		}
		return local
	}, func(outer, localResult T) T {
		return op(outer, localResult)
	})
}

// Accumulate is Reduce under another name, matching the source's separate
// accumulate/reduce entry points over the identical fold.
func Accumulate[T any](c iter.Contract[T], begin, end int, init T, op func(acc, x T) T, policy ...rt.Policy) (T, error) {
	return Reduce(c, begin, end, init, op, policy...)
}

// InnerProduct computes the generalized inner product of c1's [begin1,end1)
// and c2's [begin2,end2) (same length, aligned by Property 7): init combined
// via plus with binOp(c1[k], c2[k]) for every aligned pair.
func InnerProduct[T1, T2, Out any](c1 iter.Contract[T1], begin1, end1 int, c2 iter.Contract[T2], begin2, end2 int, init Out, plus func(acc, x Out) Out, binOp func(a T1, b T2) Out, policy ...rt.Policy) (Out, error) {
	second, err := iter.Gather(c2, begin2, end2)
	if err != nil {
		var zero Out
		return zero, err
	}
	return reduceLike(c1, begin1, end1, init, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) Out {
		offset := c1.GlobalIndex(loc, r.Lo) - begin1
		sub := sliceAt(second, offset, r.Len())
		var local Out
		first := true
		for i := r.Lo; i < r.Lo+len(sub); i++ {
			x := binOp(c1.At(loc, i), sub[i-r.Lo])
			if first {
				local = x
				first = false
				continue
			}
			local = plus(local, x)
		}
		if first {
			var zero Out
			return zero
		}
		return local
	}, func(acc, x Out) Out { return plus(acc, x) })
}

// TransformReduce reduces unaryOp(c[k]) over [begin, end) through plus,
// starting from init — the one-range cousin of InnerProduct and TransformReduceUnary's
// sibling for a pure fold rather than a map-then-fold over two ranges.
func TransformReduce[T, Out any](c iter.Contract[T], begin, end int, init Out, plus func(acc, x Out) Out, unaryOp func(T) Out, policy ...rt.Policy) (Out, error) {
	return reduceLike(c, begin, end, init, rt.PolicyOrDefault(policy), func(loc rt.Locality, r iter.Range) Out {
		var local Out
		first := true
		for i := r.Lo; i < r.Hi; i++ {
			x := unaryOp(c.At(loc, i))
			if first {
				local = x
				first = false
				continue
			}
			local = plus(local, x)
		}
		if first {
			var zero Out
			return zero
		}
		return local
	}, func(acc, x Out) Out { return plus(acc, x) })
}

// TransformReduceUnary is TransformReduce's alias under the source's other
// name for the same operation (transform_reduce with a single range and a
// unary transform).
func TransformReduceUnary[T, Out any](c iter.Contract[T], begin, end int, init Out, plus func(acc, x Out) Out, unaryOp func(T) Out, policy ...rt.Policy) (Out, error) {
	return TransformReduce(c, begin, end, init, plus, unaryOp, policy...)
}
