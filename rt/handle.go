package rt

import (
	"sync"

	"github.com/shadcore/shad/cmn/xatomic"
	"github.com/teris-io/shortid"
)

// Handle is a task-group token: every asynchronous operation submitted with a
// Handle adds one outstanding task to its group, and WaitForCompletion blocks
// until every task added (and anything those tasks recursively submit to the
// same Handle before completing) has finished.
//
// A Handle is created empty by NewHandle, may be reused after a wait, and
// should be waited on by its owner before it goes out of scope — an
// outstanding Handle that is simply dropped is a programming error the spec
// treats as fatal (HandleDestroyedWithOutstanding); this implementation does
// not attempt to detect that via a finalizer; callers are responsible for
// waiting before discarding a Handle.
type Handle struct {
	id          string
	outstanding xatomic.Int32
	wg          sync.WaitGroup

	mu      sync.Mutex
	firstErr error
}

// NewHandle creates a new, empty task group.
func NewHandle() *Handle {
	id, _ := shortid.Generate()
	return &Handle{id: id}
}

// ID returns the handle's process-wide-unique group identifier.
func (h *Handle) ID() string { return h.id }

// submit registers one outstanding task with the group. Internal pairing with
// complete; called by dispatch and dma before shipping a task.
func (h *Handle) submit() {
	h.outstanding.Inc()
	h.wg.Add(1)
}

// complete retires one outstanding task, recording err if it is the first
// failure seen by this group.
func (h *Handle) complete(err error) {
	if err != nil {
		h.mu.Lock()
		if h.firstErr == nil {
			h.firstErr = err
		}
		h.mu.Unlock()
	}
	h.outstanding.Dec()
	h.wg.Done()
}

// WaitForCompletion blocks until every task submitted to h has finished, then
// returns the first error (if any) recorded by those tasks — this is how a
// fire-and-forget async dispatch's UserKernelFailed surfaces when there is no
// separate result channel. On return h is empty and may be reused.
func (h *Handle) WaitForCompletion() error {
	h.wg.Wait()
	h.mu.Lock()
	err := h.firstErr
	h.firstErr = nil
	h.mu.Unlock()
	return err
}

// TryWait reports whether the group is currently empty, without blocking.
// This is a non-blocking poll of the same counter WaitForCompletion blocks
// on; it does not clear a recorded error (call WaitForCompletion for that).
func (h *Handle) TryWait() bool { return h.outstanding.Load() == 0 }

// Err returns the first error recorded by the group so far, without
// blocking and without clearing it.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.firstErr
}

// Outstanding returns the current outstanding-task count, for diagnostics
// and tests of the handle-drain invariant.
func (h *Handle) Outstanding() int32 { return h.outstanding.Load() }
