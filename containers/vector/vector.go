// Package vector is a fixed-size distributed array: N elements partitioned
// into contiguous per-locality chunks, one chunk per locality, sized by the
// same prefix-sum scheme as the original SHAD vector (p_[i] = i*N/numLocalities,
// so a locality's chunk is p_[i+1]-p_[i] elements — within one element of
// every other locality's chunk).
// It is the reference implementation of the iter.Contract[T] distributed
// iterator contract (C6) that package algo is written against.
package vector

import (
	"fmt"
	"sort"

	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// Vector is a distributed array of N elements of type T, striped one
// contiguous chunk per locality. The zero value is not usable; construct
// with New.
//
// Unlike the original's AbstractDataStructure, which indexes live objects by
// ObjectID so a kernel running on a remote locality can look its receiver
// back up, a Vector here is simply closed over directly by any closure
// dispatched against it (rt.ExecuteAt and friends run in the same process as
// the caller, so the closure's capture of v *is* the lookup). ObjectID
// indirection is real infrastructure this emulator doesn't need; see
// DESIGN.md.
type Vector[T any] struct {
	n      int
	prefix []int // len NumLocalities()+1; prefix[i]..prefix[i+1] is locality i's global range
	parts  [][]T // parts[i] is locality i's local chunk, len prefix[i+1]-prefix[i]
}

// New creates a Vector of n elements, zero-valued, partitioned evenly (to
// within one element) across every current locality.
func New[T any](n int) *Vector[T] {
	nLoc := rt.NumLocalities()
	v := &Vector[T]{n: n, prefix: make([]int, nLoc+1), parts: make([][]T, nLoc)}
	for i := 1; i <= nLoc; i++ {
		v.prefix[i] = i * n / nLoc
	}
	for loc := 0; loc < nLoc; loc++ {
		v.parts[loc] = make([]T, v.prefix[loc+1]-v.prefix[loc])
	}
	return v
}

// FromSlice creates a Vector holding a copy of src, partitioned the same way
// as New(len(src)).
func FromSlice[T any](src []T) *Vector[T] {
	v := New[T](len(src))
	off := 0
	for loc := range v.parts {
		off += copy(v.parts[loc], src[off:])
	}
	return v
}

// Size is the total element count across every locality.
func (v *Vector[T]) Size() int { return v.n }

// Begin and End are the global-iterator bounds of the whole vector, for
// passing straight to package algo.
func (v *Vector[T]) Begin() int { return 0 }
func (v *Vector[T]) End() int   { return v.n }

// localityOf returns the locality whose chunk contains global index i.
func (v *Vector[T]) localityOf(i int) rt.Locality {
	// smallest loc such that prefix[loc+1] > i
	nLoc := len(v.parts)
	loc := sort.Search(nLoc, func(l int) bool { return v.prefix[l+1] > i })
	return rt.Locality(loc)
}

// Localities implements iter.Contract.
func (v *Vector[T]) Localities(begin, end int) rt.LocalityRange {
	if end <= begin {
		return rt.LocalityRangeOf(0, 0)
	}
	lo := v.localityOf(begin)
	hi := v.localityOf(end - 1)
	return rt.LocalityRangeOf(lo, hi+1)
}

// LocalRange implements iter.Contract.
func (v *Vector[T]) LocalRange(loc rt.Locality, begin, end int) iter.Range {
	base, top := v.prefix[loc], v.prefix[loc+1]
	lo, hi := begin, end
	if lo < base {
		lo = base
	}
	if hi > top {
		hi = top
	}
	if hi < lo {
		hi = lo
	}
	return iter.Range{Lo: lo - base, Hi: hi - base}
}

// GlobalIndex implements iter.Contract.
func (v *Vector[T]) GlobalIndex(loc rt.Locality, localIdx int) int {
	return v.prefix[loc] + localIdx
}

// At and SetAt implement iter.Contract: called from code already running on
// loc (see the package doc and iter.Contract's doc comment).
func (v *Vector[T]) At(loc rt.Locality, localIdx int) T        { return v.parts[loc][localIdx] }
func (v *Vector[T]) SetAt(loc rt.Locality, localIdx int, x T)  { v.parts[loc][localIdx] = x }

// Get and Set are the client-side convenience API: unlike At/SetAt, they may
// be called from any goroutine (including one not bound to any locality) and
// dispatch to the owning locality themselves.
func (v *Vector[T]) Get(globalIdx int) (T, error) {
	var zero T
	if globalIdx < 0 || globalIdx >= v.n {
		return zero, fmt.Errorf("vector: index %d out of range [0,%d)", globalIdx, v.n)
	}
	loc := v.localityOf(globalIdx)
	localIdx := globalIdx - v.prefix[loc]
	return rt.CallAt(loc, func(i int) T { return v.At(loc, i) }, localIdx)
}

type setArg[T any] struct {
	Idx int
	Val T
}

func (v *Vector[T]) Set(globalIdx int, val T) error {
	if globalIdx < 0 || globalIdx >= v.n {
		return fmt.Errorf("vector: index %d out of range [0,%d)", globalIdx, v.n)
	}
	loc := v.localityOf(globalIdx)
	localIdx := globalIdx - v.prefix[loc]
	return rt.ExecuteAt(loc, func(a setArg[T]) { v.SetAt(loc, a.Idx, a.Val) }, setArg[T]{localIdx, val})
}

// Fill sets every element to val, each locality filling its own chunk, all
// localities concurrently — the
// Go analogue of vector::fill, which dispatches rt::executeOnAll over a pair
// of (ObjectID, value_type).
func (v *Vector[T]) Fill(val T) error {
	return rt.ExecuteOnAll(func(x T) {
		loc := rt.ThisLocality()
		for i := range v.parts[loc] {
			v.parts[loc][i] = x
		}
	}, val)
}

// CopyFrom replicates src's contents into v, locality by locality — the Go
// analogue of vector::operator=, which dispatches rt::executeOnAll over a
// pair of ObjectIDs and has each locality copy its own chunk.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if src.n != v.n {
		return fmt.Errorf("vector: size mismatch copying %d elements into a %d-element vector", src.n, v.n)
	}
	return rt.ExecuteOnAll(func(_ struct{}) {
		loc := rt.ThisLocality()
		copy(v.parts[loc], src.parts[loc])
	}, struct{}{})
}

// ToSlice gathers the whole vector onto the calling goroutine as a plain
// slice, locality by locality in order.
func (v *Vector[T]) ToSlice() ([]T, error) {
	return iter.Gather[T](v, 0, v.n)
}
