package rt_test

import (
	"sync"
	"testing"

	"github.com/shadcore/shad/rt"
)

func withWorld(t *testing.T, n int, f func()) {
	t.Helper()
	rt.Initialize(n)
	defer rt.Finalize()
	f()
}

// TestSyncCallVisibility is Property 3: immediately after a synchronous
// dispatch returns, every write the remote kernel performed to its local
// state must be visible to a subsequent remote read from the same caller —
// with no explicit synchronization of its own.
func TestSyncCallVisibility(t *testing.T) {
	withWorld(t, 3, func() {
		target := rt.Locality(1)
		state := make([]int, 1)

		if err := rt.ExecuteAt(target, func(v int) { state[0] = v }, 42); err != nil {
			t.Fatalf("ExecuteAt: %v", err)
		}
		got, err := rt.CallAt(target, func(_ struct{}) int { return state[0] }, struct{}{})
		if err != nil {
			t.Fatalf("CallAt: %v", err)
		}
		if got != 42 {
			t.Fatalf("got %d, want 42 (remote write not visible to subsequent remote read)", got)
		}
	})
}

// TestExecuteAtArgIsolation checks ExecuteAt's argument-copy contract: a
// mutation the kernel makes to its copy of arg is not observed by the caller
// after the call.
func TestExecuteAtArgIsolation(t *testing.T) {
	withWorld(t, 2, func() {
		type payload struct{ N int }
		arg := payload{N: 1}
		if err := rt.ExecuteAt(rt.Locality(0), func(p payload) { p.N = 999 }, arg); err != nil {
			t.Fatalf("ExecuteAt: %v", err)
		}
		if arg.N != 1 {
			t.Fatalf("caller's arg was mutated: got %d, want 1", arg.N)
		}
	})
}

func TestCallOnAllOrdersByLocality(t *testing.T) {
	withWorld(t, 4, func() {
		results, err := rt.CallOnAll(func(_ struct{}) int { return int(rt.ThisLocality()) }, struct{}{})
		if err != nil {
			t.Fatalf("CallOnAll: %v", err)
		}
		for i, r := range results {
			if r != i {
				t.Fatalf("results[%d] = %d, want %d", i, r, i)
			}
		}
	})
}

func TestCallOnAllBufOrdersByLocality(t *testing.T) {
	withWorld(t, 4, func() {
		results, err := rt.CallOnAllBuf(func(arg []byte) ([]byte, error) {
			return append(arg, byte(rt.ThisLocality())), nil
		}, []byte{0xAA})
		if err != nil {
			t.Fatalf("CallOnAllBuf: %v", err)
		}
		for i, r := range results {
			want := []byte{0xAA, byte(i)}
			if len(r) != 2 || r[0] != want[0] || r[1] != want[1] {
				t.Fatalf("results[%d] = %v, want %v", i, r, want)
			}
		}
	})
}

func TestExecuteOnAllBufRunsEverywhere(t *testing.T) {
	withWorld(t, 3, func() {
		var mu sync.Mutex
		seen := map[rt.Locality]bool{}
		err := rt.ExecuteOnAllBuf(func(_ []byte) {
			mu.Lock()
			defer mu.Unlock()
			seen[rt.ThisLocality()] = true
		}, nil)
		if err != nil {
			t.Fatalf("ExecuteOnAllBuf: %v", err)
		}
		if len(seen) != 3 {
			t.Fatalf("ran on %d localities, want 3", len(seen))
		}
	})
}

func TestExecuteAtAsyncFailurePropagates(t *testing.T) {
	withWorld(t, 2, func() {
		h := rt.NewHandle()
		if err := rt.ExecuteAtAsync(h, rt.Locality(0), func(_ struct{}) { panic("kernel failure") }, struct{}{}); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := h.WaitForCompletion(); err == nil {
			t.Fatal("expected WaitForCompletion to surface the panicking kernel's error")
		}
	})
}
