package rt

import (
	"fmt"

	"github.com/shadcore/shad/rt/rtmetrics"
	"github.com/shadcore/shad/rtcfg"
)

// RemotePtr is an opaque (Locality, address, element-type) triple: the only
// representation of a remote address this package exposes. It cannot be
// dereferenced directly — only Put and Get, which require one, can touch the
// memory it names. A RemotePtr is obtained by Export, called from a kernel
// actually running on the locality that owns the buffer (typically inside an
// ExecuteAt/CallAt closure dispatched to that locality).
type RemotePtr[T any] struct {
	loc  Locality
	addr uint64
	n    int
}

// Export registers buf as a remotely-addressable region on loc and returns a
// RemotePtr naming it. The caller is responsible for calling Export only from
// code that is actually executing on loc (the runtime does not and cannot
// verify this in-process, matching the spec's "the runtime does not translate
// pointers" stance — it is purely an addressing convention).
func Export[T any](loc Locality, buf []T) RemotePtr[T] {
	addr := world().RegisterRegion(int(loc), buf)
	return RemotePtr[T]{loc: loc, addr: addr, n: len(buf)}
}

func (p RemotePtr[T]) Locality() Locality { return p.loc }
func (p RemotePtr[T]) Len() int           { return p.n }

// Release forgets the registration backing p. Any RemotePtr still held after
// this is dangling.
func (p RemotePtr[T]) Release() { world().Unregister(int(p.loc), p.addr) }

func lookupRegion[T any](p RemotePtr[T]) ([]T, error) {
	v, ok := world().Lookup(int(p.loc), p.addr)
	if !ok {
		return nil, fmt.Errorf("dma: no region registered at %s addr %d (already released, or never exported)", p.loc, p.addr)
	}
	buf, ok := v.([]T)
	if !ok {
		return nil, fmt.Errorf("dma: element-type mismatch for region at %s addr %d", p.loc, p.addr)
	}
	return buf, nil
}

func chunked(n, chunk int, f func(lo, hi int) error) error {
	if chunk <= 0 {
		chunk = n
		if chunk == 0 {
			chunk = 1
		}
	}
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if err := f(lo, hi); err != nil {
			return err
		}
	}
	return nil
}

// Put copies the first n elements of src into the remote buffer named by
// dst. The destination memory is undefined until this call returns (or, for
// PutAsync, until the owning Handle is waited on).
func Put[T any](dst RemotePtr[T], src []T, n int) error {
	if err := checkLocality(dst.loc); err != nil {
		return err
	}
	staged := make([]T, n)
	copy(staged, src[:n])
	chunk := rtcfg.Global().DMAChunkElems
	return chunked(n, chunk, func(lo, hi int) error {
		return runSync(dst.loc, "dma_put", func() error {
			rbuf, err := lookupRegion(dst)
			if err != nil {
				return err
			}
			if hi > len(rbuf) {
				return fmt.Errorf("dma put: destination region too small: need %d, have %d", hi, len(rbuf))
			}
			copy(rbuf[lo:hi], staged[lo:hi])
			rtmetrics.DMABytes.WithLabelValues("put").Add(float64((hi - lo) * elemSize[T]()))
			return nil
		})
	})
}

// Get copies the first n elements of the remote buffer named by src into
// dstLocal.
func Get[T any](dstLocal []T, src RemotePtr[T], n int) error {
	if err := checkLocality(src.loc); err != nil {
		return err
	}
	chunk := rtcfg.Global().DMAChunkElems
	return chunked(n, chunk, func(lo, hi int) error {
		return runSync(src.loc, "dma_get", func() error {
			rbuf, err := lookupRegion(src)
			if err != nil {
				return err
			}
			if hi > len(rbuf) {
				return fmt.Errorf("dma get: source region too small: need %d, have %d", hi, len(rbuf))
			}
			copy(dstLocal[lo:hi], rbuf[lo:hi])
			rtmetrics.DMABytes.WithLabelValues("get").Add(float64((hi - lo) * elemSize[T]()))
			return nil
		})
	})
}

// PutAsync is the asynchronous form of Put, attached to h. src must remain
// valid until h.WaitForCompletion returns.
func PutAsync[T any](h *Handle, dst RemotePtr[T], src []T, n int) error {
	staged := make([]T, n)
	copy(staged, src[:n])
	return shipAsync(h, dst.loc, "dma_put", func() error {
		rbuf, err := lookupRegion(dst)
		if err != nil {
			return err
		}
		if n > len(rbuf) {
			return fmt.Errorf("dma put: destination region too small: need %d, have %d", n, len(rbuf))
		}
		copy(rbuf[:n], staged[:n])
		rtmetrics.DMABytes.WithLabelValues("put").Add(float64(n * elemSize[T]()))
		return nil
	})
}

// GetAsync is the asynchronous form of Get, attached to h. dstLocal must
// remain valid until h.WaitForCompletion returns.
func GetAsync[T any](h *Handle, dstLocal []T, src RemotePtr[T], n int) error {
	return shipAsync(h, src.loc, "dma_get", func() error {
		rbuf, err := lookupRegion(src)
		if err != nil {
			return err
		}
		if n > len(rbuf) {
			return fmt.Errorf("dma get: source region too small: need %d, have %d", n, len(rbuf))
		}
		copy(dstLocal[:n], rbuf[:n])
		rtmetrics.DMABytes.WithLabelValues("get").Add(float64(n * elemSize[T]()))
		return nil
	})
}

// elemSize is a rough per-element byte estimate for metrics only; it does not
// need to be exact (unsafe.Sizeof would require T to be a concrete type at a
// call site that imports unsafe, which the dma API deliberately avoids).
func elemSize[T any]() int {
	var zero T
	switch any(zero).(type) {
	case int8, uint8, bool:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}
