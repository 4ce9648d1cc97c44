package rt

import "github.com/shadcore/shad/rtcfg"

// Policy selects between the two locality-traversal strategies every
// algorithm kernel in package algo supports.
type Policy int

const (
	// Sequential visits localities in order, waiting for each before
	// starting the next. It is deterministic and requires only that the
	// algorithm's combining operation be associative, not commutative.
	// It is the default across every algorithm that accepts a Policy.
	Sequential Policy = iota
	// Parallel dispatches all per-locality kernels under one Handle, then
	// waits once; it assumes the combining operation is associative.
	Parallel
)

func (p Policy) String() string {
	if p == Parallel {
		return "parallel_across_localities"
	}
	return "sequential_across_localities"
}

// PolicyOrDefault returns policy[0] if given, else the configured default —
// Sequential unless rtcfg.Global().DefaultPolicyParallel opts into Parallel.
// Algorithms in package algo take a variadic Policy parameter so a call site
// can either give one explicitly or omit it entirely — the Go analogue of
// the spec's is_execution_policy<T> overload-resolution trait, since Go has
// no overloading to dispatch on.
func PolicyOrDefault(policy []Policy) Policy {
	if len(policy) == 0 {
		if rtcfg.Global().DefaultPolicyParallel {
			return Parallel
		}
		return Sequential
	}
	return policy[0]
}
