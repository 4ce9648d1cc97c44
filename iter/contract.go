// Package iter is the distributed-iterator contract (spec C6): given a pair
// of global iterators over a partitioned container, enumerate the
// localities that hold data in between them, and on each locality expose the
// local sub-range and a mapping back to global positions. Every algorithm in
// package algo is generic over exactly this contract and nothing else about
// a container.
//
// A global iterator is modeled as a plain integer position in the
// container's conceptually-flattened element sequence [0, Size()) — trivial
// to ship as a dispatch payload, and sufficient for every operation spec.md
// §4.6 requires. Containers that want richer iterator objects (e.g. a
// multimap's bucket+slot cursor) are free to do so internally but need not
// satisfy this contract unless they want to be driven by package algo.
package iter

import (
	"fmt"

	"github.com/shadcore/shad/rt"
	"github.com/shadcore/shad/rterr"
)

// Range is one locality's contiguous local sub-range, expressed as local
// indices into that locality's own part. Lo == Hi means this locality holds
// no overlap with the requested global range.
type Range struct{ Lo, Hi int }

func (r Range) Empty() bool { return r.Hi <= r.Lo }
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Hi - r.Lo
}

// Contract is the distributed-iterator contract a container's global
// iterator type must satisfy to be driven by package algo. LocalRange,
// GlobalIndex, At, and SetAt are specified to be invoked on code already
// running at loc (i.e. from inside a kernel package algo dispatched there
// via package rt) — that discipline, not a runtime check, is what makes
// "local" local.
type Contract[T any] interface {
	// Size is the total element count across every locality.
	Size() int

	// Localities returns the ordered set of localities whose local parts
	// intersect the global range [begin, end). Non-empty for any non-empty
	// range (spec invariant).
	Localities(begin, end int) rt.LocalityRange

	// LocalRange returns loc's local sub-range of [begin, end), as local
	// indices into loc's own part. The locality-ordered concatenation of
	// LocalRange results over Localities(begin,end) must equal exactly
	// [begin, end) (Property 1, the locality-range partition invariant).
	LocalRange(loc rt.Locality, begin, end int) Range

	// GlobalIndex lifts a local index on loc back to the corresponding
	// global index; the left inverse of the local/global projection
	// (Property 7, the align invariant, depends on this being exact).
	GlobalIndex(loc rt.Locality, localIdx int) int

	// At and SetAt read/write one local element by local index.
	At(loc rt.Locality, localIdx int) T
	SetAt(loc rt.Locality, localIdx int, v T)
}

// CheckPartition verifies the locality-range partition invariant for a
// contract by counting: the LocalRange lengths for [begin,end), summed over
// Localities(begin,end), must equal (end-begin). It compares counts only and
// does not check where each local range starts, so a gap and an overlap of
// equal size cancel out; but
// it is exactly what the spec calls an opportunistic detector for
// ContainerContractViolation, and container test suites are expected to call
// it.
func CheckPartition[T any](c Contract[T], begin, end int) (ok bool, covered int) {
	want := end - begin
	if want < 0 {
		want = 0
	}
	total := 0
	for _, loc := range c.Localities(begin, end).All() {
		total += c.LocalRange(loc, begin, end).Len()
	}
	return total == want, total
}

// CheckPartitionErr is CheckPartition raised to an error: it returns a
// *rterr.ContainerContractViolation describing the mismatch when the
// locality-ordered concatenation of local ranges does not cover [begin, end)
// exactly, and nil otherwise. This is the opportunistic detector container
// test suites call.
func CheckPartitionErr[T any](c Contract[T], begin, end int) error {
	want := end - begin
	if want < 0 {
		want = 0
	}
	if ok, covered := CheckPartition(c, begin, end); !ok {
		return &rterr.ContainerContractViolation{
			Reason: fmt.Sprintf("range [%d,%d): local ranges cover %d elements, want %d", begin, end, covered, want),
		}
	}
	return nil
}

// At fetches a single arbitrary global element of c, dispatching to whichever
// locality happens to own it. It is the generic, container-agnostic way
// package algo reaches into a *second* range when an algorithm needs one
// (two-range algorithms otherwise only ever deal in local ranges of their
// primary container) — not part of the distributed-iterator contract itself,
// since containers with a fast index-to-locality formula (e.g. vector) never
// need to go through it for their own elements.
func At[T any](c Contract[T], globalIdx int) (T, error) {
	var zero T
	locs := c.Localities(globalIdx, globalIdx+1).All()
	if len(locs) == 0 {
		return zero, fmt.Errorf("iter: index %d out of range", globalIdx)
	}
	loc := locs[0]
	r := c.LocalRange(loc, globalIdx, globalIdx+1)
	if r.Empty() {
		return zero, fmt.Errorf("iter: index %d out of range", globalIdx)
	}
	localIdx := r.Lo
	return rt.CallAt(loc, func(li int) T { return c.At(loc, li) }, localIdx)
}

// Gather pulls the elements of c in [begin, end) onto the calling goroutine
// as a plain ordered slice, one remote call per intersecting locality. It is
// how two-range algorithms (Equal, LexicographicalCompare, InnerProduct)
// obtain the aligned slice of their second range to hand to
// each per-locality kernel of the first range as a plain argument.
func Gather[T any](c Contract[T], begin, end int) ([]T, error) {
	if end <= begin {
		return nil, nil
	}
	out := make([]T, 0, end-begin)
	for _, loc := range c.Localities(begin, end).All() {
		r := c.LocalRange(loc, begin, end)
		if r.Empty() {
			continue
		}
		chunk, err := rt.CallAt(loc, func(rr Range) []T {
			vals := make([]T, rr.Len())
			for i := rr.Lo; i < rr.Hi; i++ {
				vals[i-rr.Lo] = c.At(loc, i)
			}
			return vals
		}, r)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// Scatter is Gather's inverse: it writes vals into c starting at global
// index begin, one remote call per intersecting locality. Used by CopyIf,
// where the output position of each match is only known after a prefix
// count, to place the already-computed result slice without per-element
// round trips.
func Scatter[T any](c Contract[T], begin int, vals []T) error {
	end := begin + len(vals)
	if end <= begin {
		return nil
	}
	for _, loc := range c.Localities(begin, end).All() {
		r := c.LocalRange(loc, begin, end)
		if r.Empty() {
			continue
		}
		lo := c.GlobalIndex(loc, r.Lo) - begin
		hi := lo + r.Len()
		if lo < 0 || hi > len(vals) {
			return fmt.Errorf("iter: Scatter: locality range misaligned with vals (lo=%d hi=%d len=%d)", lo, hi, len(vals))
		}
		sub := vals[lo:hi]
		if err := rt.ExecuteAt(loc, func(s []T) {
			for i, x := range s {
				c.SetAt(loc, r.Lo+i, x)
			}
		}, sub); err != nil {
			return err
		}
	}
	return nil
}
