package algo

import (
	"github.com/shadcore/shad/iter"
	"github.com/shadcore/shad/rt"
)

// localRawInclusive computes the raw (identity-free) inclusive scan of loc's
// local range under op, into a freshly allocated slice indexed from 0.
// "Raw" because it has not yet been rebased against any carry-in from
// preceding localities — that is scanImpl's second phase.
func localRawInclusive[T any](c iter.Contract[T], loc rt.Locality, r iter.Range, op func(acc, x T) T) []T {
	raw := make([]T, r.Len())
	for i := r.Lo; i < r.Hi; i++ {
		v := c.At(loc, i)
		j := i - r.Lo
		if j == 0 {
			raw[j] = v
		} else {
			raw[j] = op(raw[j-1], v)
		}
	}
	return raw
}

// scanImpl is the shared engine behind InclusiveScan, InclusiveScanInit,
// ExclusiveScan, and PartialSum. Phase A computes every locality's raw local
// inclusive scan independently (it needs no cross-locality input): one
// locality after another under Sequential, all concurrently under Parallel.
// The caller then folds those raw scans' final values left-to-right in
// locality order to learn each locality's carry-in (the one cross-locality
// dependency; every carry is known before any write is dispatched, under
// either policy). Phase B writes the rebased result, one locality after
// another under Sequential and all concurrently under Parallel: because op is
// required to be associative, rebasing the j-th
// raw value against the carry is just op(carry, raw[j]) — no need to refold
// each locality's elements a second time.
//
// exclusive, when true, shifts the output by one position (out[0] = carry,
// out[j] = op(carry, raw[j-1])) and folds the *last* raw value into the next
// locality's carry-in the same way; when false the output is the inclusive
// rebase and write[last] directly becomes the next carry.
//
// init is optional (nil means "no seed value": the first locality's own raw
// scan is already the final inclusive result, with no carry applied, and
// every locality after it carries from the previous one's last value). A
// real seed is only ever rebased into the first locality onward — never
// injected as a stand-in identity element for op, since an arbitrary op has
// no reason to treat T's zero value as an identity.
func scanImpl[T any](c iter.Contract[T], begin, end int, init *T, op func(acc, x T) T, exclusive bool, policy rt.Policy) error {
	parts := nonEmptyLocalRanges(c, begin, end)
	if len(parts) == 0 {
		return nil
	}

	raws := make([][]T, len(parts))
	computeRaw := func(i int, p locRange) error {
		r, err := rt.CallAt(p.Loc, func(rr iter.Range) []T {
			return localRawInclusive(c, p.Loc, rr, op)
		}, p.R)
		if err != nil {
			return err
		}
		raws[i] = r
		return nil
	}
	if err := runDispatch(parts, policy, computeRaw); err != nil {
		return err
	}

	carries := make([]T, len(parts))
	haveCarry := make([]bool, len(parts))
	var carry T
	have := false
	if init != nil {
		carry, have = *init, true
	}
	for i, raw := range raws {
		carries[i], haveCarry[i] = carry, have
		if len(raw) == 0 {
			continue
		}
		last := raw[len(raw)-1]
		if have {
			carry = op(carry, last)
		} else {
			carry = last
		}
		have = true
	}

	write := func(i int, p locRange) error {
		raw := raws[i]
		arg := rebaseArg[T]{Raw: raw, HaveCarry: haveCarry[i], Exclusive: exclusive}
		if haveCarry[i] {
			arg.Carry = carries[i]
		}
		return rt.ExecuteAt(p.Loc, func(in rebaseArg[T]) {
			for j, v := range in.Raw {
				if in.Exclusive {
					switch {
					case j == 0 && in.HaveCarry:
						c.SetAt(p.Loc, p.R.Lo, in.Carry)
					case j == 0:
						var zero T
						c.SetAt(p.Loc, p.R.Lo, zero)
					case in.HaveCarry:
						c.SetAt(p.Loc, p.R.Lo+j, op(in.Carry, in.Raw[j-1]))
					default:
						c.SetAt(p.Loc, p.R.Lo+j, in.Raw[j-1])
					}
				} else if in.HaveCarry {
					c.SetAt(p.Loc, p.R.Lo+j, op(in.Carry, v))
				} else {
					c.SetAt(p.Loc, p.R.Lo+j, v)
				}
			}
		}, arg)
	}
	return runDispatch(parts, policy, write)
}

type rebaseArg[T any] struct {
	Raw       []T
	Carry     T
	HaveCarry bool
	Exclusive bool
}

// InclusiveScan writes the running fold of c's [begin, end) through op into
// c itself, in place: out[k] = op(out[begin], ..., out[k]) for every k, i.e.
// the classic inclusive prefix scan with no separate seed value.
func InclusiveScan[T any](c iter.Contract[T], begin, end int, op func(acc, x T) T, policy ...rt.Policy) error {
	return scanImpl(c, begin, end, nil, op, false, rt.PolicyOrDefault(policy))
}

// InclusiveScanInit is InclusiveScan seeded with an explicit init value
// combined in before the first element, i.e. out[k] = op(init, c[begin], ...,
// c[k]).
func InclusiveScanInit[T any](c iter.Contract[T], begin, end int, op func(acc, x T) T, init T, policy ...rt.Policy) error {
	return scanImpl(c, begin, end, &init, op, false, rt.PolicyOrDefault(policy))
}

// ExclusiveScan writes out[k] = op(init, c[begin], ..., c[k-1]) for every k in
// [begin, end) (out[begin] == init) — the scan shifted one position so each
// output excludes its own input element.
func ExclusiveScan[T any](c iter.Contract[T], begin, end int, init T, op func(acc, x T) T, policy ...rt.Policy) error {
	return scanImpl(c, begin, end, &init, op, true, rt.PolicyOrDefault(policy))
}

// PartialSum is ExclusiveScan's inclusive-addition cousin under the source's
// separate name: the classic std::partial_sum, i.e. InclusiveScan with +.
func PartialSum[T interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}](c iter.Contract[T], begin, end int, policy ...rt.Policy) error {
	return InclusiveScan(c, begin, end, func(acc, x T) T { return acc + x }, policy...)
}

// Iota writes val, val+1, val+2, ... into c's [begin, end) in global-index
// order, via Generate.
func Iota[T interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}](c iter.Contract[T], begin, end int, val T, policy ...rt.Policy) error {
	return Generate(c, begin, end, func(k int) T { return val + T(k-begin) }, policy...)
}

// AdjacentDifference writes out[begin] = c[begin] and out[k] = op(c[k],
// c[k-1]) for every other k in [begin, end). Unlike the scans, this needs
// neither scanImpl's two-phase carry nor any ordering dependency between
// localities at all: every output element depends only on its own locality's
// data, except the very first element of each locality (other than the
// range's first), which needs exactly one value from the immediately
// preceding locality — fetched once per locality via a cheap, independent
// iter.At point read before any writes are dispatched, so no locality's
// writes wait on another's: under Parallel every locality runs concurrently,
// under Sequential they run one after another in locality order. (The
// source's own implementation uses plain subtraction in its sequential
// overload and op in its parallel one; this uses op, called as op(current,
// previous), under both policies.)
func AdjacentDifference[T any](c iter.Contract[T], begin, end int, out iter.Contract[T], op func(cur, prev T) T, policy ...rt.Policy) error {
	parts := nonEmptyLocalRanges(c, begin, end)
	if len(parts) == 0 {
		return nil
	}
	prevVal := make([]T, len(parts))
	fetchPrev := func(i int, p locRange) error {
		globalLo := c.GlobalIndex(p.Loc, p.R.Lo)
		if globalLo == begin {
			return nil
		}
		v, err := iter.At(c, globalLo-1)
		if err != nil {
			return err
		}
		prevVal[i] = v
		return nil
	}
	policyVal := rt.PolicyOrDefault(policy)
	if err := runDispatch(parts, policyVal, fetchPrev); err != nil {
		return err
	}

	write := func(i int, p locRange) error {
		globalLo := c.GlobalIndex(p.Loc, p.R.Lo)
		hasPrev := globalLo != begin
		or := out.LocalRange(p.Loc, begin, end)
		return rt.ExecuteAt(p.Loc, func(a adjDiffArg[T]) {
			for j := 0; j < p.R.Len(); j++ {
				i := p.R.Lo + j
				var result T
				if j == 0 {
					if a.HasPrev {
						result = op(c.At(p.Loc, i), a.Prev)
					} else {
						result = c.At(p.Loc, i)
					}
				} else {
					result = op(c.At(p.Loc, i), c.At(p.Loc, i-1))
				}
				out.SetAt(p.Loc, or.Lo+j, result)
			}
		}, adjDiffArg[T]{Prev: prevVal[i], HasPrev: hasPrev})
	}
	return runDispatch(parts, policyVal, write)
}

type adjDiffArg[T any] struct {
	Prev    T
	HasPrev bool
}
