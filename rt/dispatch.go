package rt

import (
	"fmt"

	"github.com/shadcore/shad/cmn/mono"
	"github.com/shadcore/shad/rt/rtmetrics"
	"github.com/shadcore/shad/rterr"
)

// recoverKernel turns a panicking user closure into a UserKernelFailed error,
// matching the propagation policy: algorithms and dispatch never swallow a
// user kernel's failure, they convert it into the documented error kind.
func recoverKernel(target Locality, errp *error) {
	if r := recover(); r != nil {
		*errp = &rterr.UserKernelFailed{Locality: int(target), Cause: fmt.Errorf("%v", r)}
	}
}

func runSync(target Locality, shape string, body func() error) error {
	if err := checkLocality(target); err != nil {
		return err
	}
	rtmetrics.TasksSubmitted.WithLabelValues("sync", shape).Inc()
	done := make(chan error, 1)
	start := mono.NanoTime()
	world().Submit(int(target), func() {
		var err error
		func() {
			defer recoverKernel(target, &err)
			err = body()
		}()
		done <- err
	})
	err := <-done
	rtmetrics.ObserveDispatch(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	rtmetrics.TasksCompleted.WithLabelValues(outcome).Inc()
	return err
}

func shipAsync(h *Handle, target Locality, shape string, body func() error) error {
	if err := checkLocality(target); err != nil {
		return err
	}
	rtmetrics.TasksSubmitted.WithLabelValues("async", shape).Inc()
	h.submit()
	world().Submit(int(target), func() {
		var err error
		func() {
			defer recoverKernel(target, &err)
			err = body()
		}()
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		rtmetrics.TasksCompleted.WithLabelValues(outcome).Inc()
		h.complete(err)
	})
	return nil
}

// ---- (1) sync, typed-arg, fire-and-forget ----

// ExecuteAt runs fn(arg) at target and blocks until it completes. The
// closure receives a copy of arg; mutations it makes are not observed by the
// caller.
func ExecuteAt[A any](target Locality, fn func(A), arg A) error {
	return runSync(target, "execute", func() error {
		fn(copyTyped(arg))
		return nil
	})
}

// ---- (2) sync, byte-buffer-arg, fire-and-forget ----

func ExecuteAtBuf(target Locality, fn func([]byte), arg []byte) error {
	return runSync(target, "execute_buf", func() error {
		fn(copyBytes(arg))
		return nil
	})
}

// ---- (3) sync, typed-arg, return-value ----

func CallAt[A, R any](target Locality, fn func(A) R, arg A) (R, error) {
	var result R
	err := runSync(target, "call", func() error {
		result = fn(copyTyped(arg))
		return nil
	})
	return result, err
}

// ---- (4) sync, byte-buffer-arg, return-value ----

func CallAtBufArg[R any](target Locality, fn func([]byte) R, arg []byte) (R, error) {
	var result R
	err := runSync(target, "call_buf_arg", func() error {
		result = fn(copyBytes(arg))
		return nil
	})
	return result, err
}

// ---- (5) sync, typed-arg, return-buffer ----

// CallAtIntoBuf runs fn(arg) at target; fn returns the bytes it produced,
// which are copied into result. If fn produced more bytes than len(result),
// ResultTruncated is returned and result's contents are undefined.
func CallAtIntoBuf[A any](target Locality, fn func(A) ([]byte, error), arg A, result []byte) (int, error) {
	var n int
	err := runSync(target, "call_into_buf", func() error {
		data, kerr := fn(copyTyped(arg))
		if kerr != nil {
			return kerr
		}
		if len(data) > len(result) {
			return &rterr.ResultTruncated{Want: len(data), Got: len(result)}
		}
		n = copy(result, data)
		return nil
	})
	return n, err
}

// ---- (6) sync, byte-buffer-arg, return-buffer ----

func CallAtBufIntoBuf(target Locality, fn func([]byte) ([]byte, error), arg []byte, result []byte) (int, error) {
	var n int
	err := runSync(target, "call_buf_into_buf", func() error {
		data, kerr := fn(copyBytes(arg))
		if kerr != nil {
			return kerr
		}
		if len(data) > len(result) {
			return &rterr.ResultTruncated{Want: len(data), Got: len(result)}
		}
		n = copy(result, data)
		return nil
	})
	return n, err
}

// ---- (7) async, typed-arg, fire-and-forget ----

func ExecuteAtAsync[A any](h *Handle, target Locality, fn func(A), arg A) error {
	return shipAsync(h, target, "execute", func() error {
		fn(copyTyped(arg))
		return nil
	})
}

// ---- (8) async, byte-buffer-arg, fire-and-forget ----

func ExecuteAtBufAsync(h *Handle, target Locality, fn func([]byte), arg []byte) error {
	return shipAsync(h, target, "execute_buf", func() error {
		fn(copyBytes(arg))
		return nil
	})
}

// ---- (9) async, typed-arg, return-value ----

// CallAtAsync writes fn's result into *resultCell when the task completes.
// resultCell must remain valid until h.WaitForCompletion returns.
func CallAtAsync[A, R any](h *Handle, target Locality, fn func(A) R, arg A, resultCell *R) error {
	return shipAsync(h, target, "call", func() error {
		*resultCell = fn(copyTyped(arg))
		return nil
	})
}

// ---- (10) async, byte-buffer-arg, return-value ----

func CallAtBufArgAsync[R any](h *Handle, target Locality, fn func([]byte) R, arg []byte, resultCell *R) error {
	return shipAsync(h, target, "call_buf_arg", func() error {
		*resultCell = fn(copyBytes(arg))
		return nil
	})
}

// ---- (11) async, typed-arg, return-buffer ----

func CallAtIntoBufAsync[A any](h *Handle, target Locality, fn func(A) ([]byte, error), arg A, result []byte, sizeOut *int) error {
	return shipAsync(h, target, "call_into_buf", func() error {
		data, kerr := fn(copyTyped(arg))
		if kerr != nil {
			return kerr
		}
		if len(data) > len(result) {
			return &rterr.ResultTruncated{Want: len(data), Got: len(result)}
		}
		*sizeOut = copy(result, data)
		return nil
	})
}

// ---- (12) async, byte-buffer-arg, return-buffer ----

func CallAtBufIntoBufAsync(h *Handle, target Locality, fn func([]byte) ([]byte, error), arg []byte, result []byte, sizeOut *int) error {
	return shipAsync(h, target, "call_buf_into_buf", func() error {
		data, kerr := fn(copyBytes(arg))
		if kerr != nil {
			return kerr
		}
		if len(data) > len(result) {
			return &rterr.ResultTruncated{Want: len(data), Got: len(result)}
		}
		*sizeOut = copy(result, data)
		return nil
	})
}

// ---- ExecuteOnAll / CallOnAll: dispatch-to-every-locality convenience ----

// ExecuteOnAll runs fn(arg) at every locality and waits for all of them.
func ExecuteOnAll[A any](fn func(A), arg A) error {
	h := NewHandle()
	for _, l := range AllLocalities() {
		if err := ExecuteAtAsync(h, l, fn, arg); err != nil {
			h.WaitForCompletion() //nolint:errcheck
			return err
		}
	}
	return h.WaitForCompletion()
}

// ExecuteOnAllAsync runs fn(arg) at every locality under h without waiting.
func ExecuteOnAllAsync[A any](h *Handle, fn func(A), arg A) error {
	for _, l := range AllLocalities() {
		if err := ExecuteAtAsync(h, l, fn, arg); err != nil {
			return err
		}
	}
	return nil
}

// CallOnAll runs fn(arg) at every locality and returns the results ordered
// by locality ID.
func CallOnAll[A, R any](fn func(A) R, arg A) ([]R, error) {
	n := NumLocalities()
	results := make([]R, n)
	h := NewHandle()
	for _, l := range AllLocalities() {
		if err := CallAtAsync(h, l, fn, arg, &results[l]); err != nil {
			h.WaitForCompletion() //nolint:errcheck
			return nil, err
		}
	}
	if err := h.WaitForCompletion(); err != nil {
		return nil, err
	}
	return results, nil
}

// ExecuteOnAllBuf is ExecuteOnAll's byte-buffer-arg form: it runs fn(arg) at
// every locality and waits for all of them.
func ExecuteOnAllBuf(fn func([]byte), arg []byte) error {
	h := NewHandle()
	for _, l := range AllLocalities() {
		if err := ExecuteAtBufAsync(h, l, fn, arg); err != nil {
			h.WaitForCompletion() //nolint:errcheck
			return err
		}
	}
	return h.WaitForCompletion()
}

// CallOnAllBuf is CallOnAll's byte-buffer form: fn runs at every locality and
// returns the bytes it produced, collected into a slice ordered by locality
// ID, one entry per locality. A kernel error at any locality is surfaced by
// WaitForCompletion, matching CallOnAll's propagation.
func CallOnAllBuf(fn func([]byte) ([]byte, error), arg []byte) ([][]byte, error) {
	n := NumLocalities()
	results := make([][]byte, n)
	h := NewHandle()
	for _, l := range AllLocalities() {
		l := l
		err := shipAsync(h, l, "call_buf", func() error {
			data, kerr := fn(copyBytes(arg))
			if kerr != nil {
				return kerr
			}
			results[l] = data
			return nil
		})
		if err != nil {
			h.WaitForCompletion() //nolint:errcheck
			return nil, err
		}
	}
	if err := h.WaitForCompletion(); err != nil {
		return nil, err
	}
	return results, nil
}
