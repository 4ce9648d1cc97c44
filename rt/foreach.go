package rt

import (
	"fmt"

	"github.com/shadcore/shad/rtcfg"
	"github.com/shadcore/shad/rterr"
	"golang.org/x/sync/errgroup"
)

// runLocalRange executes fn(arg, i) for i in [lo, hi), fanning the range out
// across this locality's configured worker concurrency. A panic in any
// iteration is converted to a UserKernelFailed and the others are left to
// finish (the spec does not ask for early cancellation of sibling workers,
// and cancellation is explicitly unsupported).
func runLocalRange[A any](target Locality, fn func(A, int), arg A, lo, hi int) error {
	if hi <= lo {
		return nil
	}
	workers := rtcfg.Global().Concurrency
	total := hi - lo
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (total + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		clo := lo + w*chunk
		chi := clo + chunk
		if clo >= hi {
			break
		}
		if chi > hi {
			chi = hi
		}
		clo, chi := clo, chi
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &rterr.UserKernelFailed{Locality: int(target), Cause: fmt.Errorf("%v", r)}
				}
			}()
			for i := clo; i < chi; i++ {
				fn(arg, i)
			}
			return nil
		})
	}
	return g.Wait()
}

type share struct{ Lo, Hi int }

// evenShares splits n iterations into N contiguous, locality-ordered shares:
// n/N each, with the first (n mod N) localities receiving one extra — the
// concrete (stable, but spec-implementation-defined) iteration-to-locality
// mapping for for_each_on_all.
func evenShares(n, nLoc int) []share {
	shares := make([]share, nLoc)
	base := n / nLoc
	rem := n % nLoc
	lo := 0
	for i := 0; i < nLoc; i++ {
		hi := lo + base
		if i < rem {
			hi++
		}
		shares[i] = share{Lo: lo, Hi: hi}
		lo = hi
	}
	return shares
}

// ForEachAt runs fn(arg, i) for i in [0, nIters) at target, partitioned
// across target's local worker concurrency. nIters == 0 is a legal no-op.
func ForEachAt[A any](target Locality, fn func(A, int), arg A, nIters int) error {
	if nIters <= 0 {
		return checkLocality(target)
	}
	return runSync(target, "foreach", func() error {
		return runLocalRange(target, fn, arg, 0, nIters)
	})
}

// ForEachAtAsync is the asynchronous form of ForEachAt, attached to h.
func ForEachAtAsync[A any](h *Handle, target Locality, fn func(A, int), arg A, nIters int) error {
	if nIters <= 0 {
		return checkLocality(target)
	}
	return shipAsync(h, target, "foreach", func() error {
		return runLocalRange(target, fn, arg, 0, nIters)
	})
}

// ForEachOnAll runs nIters iterations in total over the union of all
// localities: the global index range [0, nIters) is split into contiguous,
// locality-ordered shares (see evenShares), each dispatched to its locality
// and further fanned out across that locality's workers.
func ForEachOnAll[A any](fn func(A, int), arg A, nIters int) error {
	h := NewHandle()
	if err := ForEachOnAllAsync(h, fn, arg, nIters); err != nil {
		h.WaitForCompletion() //nolint:errcheck
		return err
	}
	return h.WaitForCompletion()
}

// ForEachOnAllAsync is the asynchronous form of ForEachOnAll, attached to h.
func ForEachOnAllAsync[A any](h *Handle, fn func(A, int), arg A, nIters int) error {
	if nIters <= 0 {
		return nil
	}
	n := NumLocalities()
	if n == 0 {
		return &rterr.InvalidLocality{ID: 0, N: 0}
	}
	shares := evenShares(nIters, n)
	for loc, sh := range shares {
		if sh.Lo >= sh.Hi {
			continue
		}
		lo, hi := sh.Lo, sh.Hi
		if err := shipAsync(h, Locality(loc), "foreach", func() error {
			return runLocalRange(Locality(loc), fn, arg, lo, hi)
		}); err != nil {
			return err
		}
	}
	return nil
}
