// Package transport is the in-process "threaded emulator" transport: the one
// transport the spec allows to be a single-process goroutine emulator. It
// implements exactly the five capabilities the core runtime requires of any
// transport (see spec.md §6): an integer-addressed set of peers, a
// send-closure primitive, a send-closure-returning-value primitive layered on
// top of it, a one-sided put/get primitive for typed arrays, and a per-process
// local thread pool with yield. Nothing above the rt package imports this
// package directly; rt is the sole consumer, so a future multi-process
// transport can be swapped in without touching algorithm or container code.
package transport

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shadcore/shad/cmn/goid"
)

// Task is a unit of shipped work: a closure plus its argument payload,
// already bound at the call site. Task itself carries no result channel;
// callers that need a result close over a cell in the closure.
type Task func()

type locality struct {
	id      int
	tasks   chan Task
	mem     sync.Map // addr(uint64) -> any
	nextMem uint64
}

// World is a fixed-size set of localities, each with its own worker pool and
// task mailbox, all living in this one OS process.
type World struct {
	locs        []*locality
	concurrency int
	wg          sync.WaitGroup
	closed      int32

	goroLoc sync.Map // goroutine id (uint64) -> locality id (int), for ThisLocality
}

// New creates a World of n localities, each running concurrency worker
// goroutines draining a mailbox buffered to queueDepth entries.
func New(n, concurrency, queueDepth int) *World {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueDepth <= 0 {
		queueDepth = 1
	}
	w := &World{locs: make([]*locality, n), concurrency: concurrency}
	for i := 0; i < n; i++ {
		loc := &locality{id: i, tasks: make(chan Task, queueDepth)}
		w.locs[i] = loc
		for k := 0; k < concurrency; k++ {
			w.wg.Add(1)
			go w.worker(loc)
		}
	}
	return w
}

func (w *World) worker(loc *locality) {
	defer w.wg.Done()
	w.goroLoc.Store(goid.Get(), loc.id)
	for t := range loc.tasks {
		t()
	}
}

// N returns the number of localities in this World.
func (w *World) N() int { return len(w.locs) }

// ThisLocality reports the locality id whose worker pool the calling
// goroutine belongs to, and whether the calling goroutine is a worker at all
// (false when called from outside any pool, e.g. the user's main goroutine).
func (w *World) ThisLocality() (int, bool) {
	v, ok := w.goroLoc.Load(goid.Get())
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// BindCurrentGoroutine associates the calling goroutine with locality id,
// used once by bootstrap to mark the entrypoint goroutine as running "on"
// locality 0 per the spec's C9 contract.
func (w *World) BindCurrentGoroutine(id int) {
	w.goroLoc.Store(goid.Get(), id)
}

// Submit enqueues t to run on locality id's worker pool. It blocks if that
// locality's mailbox is full (backpressure), matching the at-most-once,
// guaranteed-delivery contract the spec requires absent locality failure.
func (w *World) Submit(id int, t Task) {
	w.locs[id].tasks <- t
}

// Yield offers the scheduler a chance to run other goroutines; used by
// spin-wait loops per the spec's concurrency model.
func Yield() { runtime.Gosched() }

// RegisterRegion allocates a fresh address on locality id and stores data
// (expected to be a slice) under it, returning the address. Used to back
// RemotePtr: the only way to obtain one is to have a kernel running on id
// register a local buffer and hand back the resulting address.
func (w *World) RegisterRegion(id int, data any) uint64 {
	loc := w.locs[id]
	addr := atomic.AddUint64(&loc.nextMem, 1)
	loc.mem.Store(addr, data)
	return addr
}

// Lookup returns the data previously registered at (id, addr).
func (w *World) Lookup(id int, addr uint64) (any, bool) {
	return w.locs[id].mem.Load(addr)
}

// Unregister forgets a previously registered region; RemotePtr holders must
// not dereference it afterward.
func (w *World) Unregister(id int, addr uint64) {
	w.locs[id].mem.Delete(addr)
}

// Close drains and stops every locality's worker pool. No further Submit
// calls are valid afterward.
func (w *World) Close() {
	if !atomic.CompareAndSwapInt32(&w.closed, 0, 1) {
		return
	}
	for _, loc := range w.locs {
		close(loc.tasks)
	}
	w.wg.Wait()
}
