// Package rt is the task and data-movement runtime: locality identity,
// task handles, the dispatch substrate, bulk for-each, one-sided dma, and
// execution-policy tags. It is deliberately the only package in this module
// that talks to a transport; everything above it (iterator contract,
// algorithm kernels, containers) is written against rt's exported API alone.
package rt

import (
	"fmt"
	"sort"

	"github.com/shadcore/shad/rterr"
)

// Locality is an opaque small-integer identifier for one member of the fixed
// process set. It is comparable, hashable, and freely copied; it carries no
// resources of its own.
type Locality int

func (l Locality) String() string { return fmt.Sprintf("locality[%d]", int(l)) }

// Localities is an ordered collection of Locality values.
type Localities []Locality

func (s Localities) Len() int           { return len(s) }
func (s Localities) Less(i, j int) bool { return s[i] < s[j] }
func (s Localities) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

var _ sort.Interface = Localities(nil)

// LocalityRange is a half-open ordered sub-range of locality IDs [Lo, Hi).
type LocalityRange struct {
	Lo, Hi Locality
}

// Empty reports whether the range contains no localities.
func (r LocalityRange) Empty() bool { return r.Hi <= r.Lo }

// Len returns the number of localities the range spans.
func (r LocalityRange) Len() int {
	if r.Empty() {
		return 0
	}
	return int(r.Hi - r.Lo)
}

// All returns the localities in the range, in order.
func (r LocalityRange) All() Localities {
	out := make(Localities, 0, r.Len())
	for l := r.Lo; l < r.Hi; l++ {
		out = append(out, l)
	}
	return out
}

// NumLocalities returns the fixed size N of the process set for the lifetime
// of this process. Initialize must have run first.
func NumLocalities() int { return world().N() }

// ThisLocality returns the caller's own locality: the locality whose worker
// pool the calling goroutine belongs to, or the bootstrap entrypoint's
// locality (0) when called from the user's main function.
func ThisLocality() Locality {
	id, _ := world().ThisLocality()
	return Locality(id)
}

// AllLocalities enumerates every locality in the process set, in order.
func AllLocalities() Localities {
	w := world()
	out := make(Localities, w.N())
	for i := range out {
		out[i] = Locality(i)
	}
	return out
}

// LocalityRangeOf constructs the half-open locality range [lo, hi).
func LocalityRangeOf(lo, hi Locality) LocalityRange { return LocalityRange{Lo: lo, Hi: hi} }

func checkLocality(l Locality) error {
	n := NumLocalities()
	if int(l) < 0 || int(l) >= n {
		return &rterr.InvalidLocality{ID: int(l), N: n}
	}
	return nil
}
