package rt

import (
	"sync"

	"github.com/shadcore/shad/rt/transport"
	"github.com/shadcore/shad/rtcfg"
)

var (
	worldMu sync.Mutex
	activeW *transport.World
)

func world() *transport.World {
	worldMu.Lock()
	defer worldMu.Unlock()
	if activeW == nil {
		panic("rt: Initialize must be called before using the runtime")
	}
	return activeW
}

// Initialize brings up the dispatch substrate: a worker-goroutine pool per
// locality and the locality membership of size n. It must be called before
// any other rt function, per C9 of the spec, and not again until Finalize.
func Initialize(n int) {
	worldMu.Lock()
	if activeW != nil {
		worldMu.Unlock()
		panic("rt: Initialize called twice")
	}
	cfg := rtcfg.Global()
	activeW = transport.New(n, cfg.Concurrency, cfg.DispatchQueueDepth)
	worldMu.Unlock()
}

// Finalize drains every locality's worker pool and tears the runtime down.
// No rt function may be called afterward except Initialize (to start a new
// run, e.g. between test cases).
func Finalize() {
	worldMu.Lock()
	w := activeW
	activeW = nil
	worldMu.Unlock()
	if w != nil {
		w.Close()
	}
}

// Run brings the runtime up with n localities, binds the calling goroutine to
// locality 0 (the entrypoint locality per C9), runs main, finalizes, and
// returns main's exit code. User programs are expected to isolate all of
// their logic inside main; Run is the only thing a `func main()` needs to
// call.
func Run(n int, main func(argv []string) int, argv []string) int {
	Initialize(n)
	defer Finalize()
	world().BindCurrentGoroutine(0)
	return main(argv)
}
