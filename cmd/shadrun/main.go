// Command shadrun is the bootstrap entrypoint (C9): it brings up a fixed set
// of localities, runs one of a small set of built-in demo workloads against
// the algorithm and container packages, and tears the runtime down. It exists
// to give every layer of the module (rt, iter, algo, containers) one real,
// executable call path, the way the teacher's cmd/ binaries are thin wiring
// over its own packages rather than places new logic gets written.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shadcore/shad/algo"
	"github.com/shadcore/shad/cmn/nlog"
	"github.com/shadcore/shad/containers/multimap"
	"github.com/shadcore/shad/containers/vector"
	"github.com/shadcore/shad/rt"
	"github.com/shadcore/shad/rtcfg"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("shadrun", flag.ContinueOnError)
	localities := fs.Int("localities", 4, "number of localities to bring up")
	size := fs.Int("size", 1_000_000, "element count for the demo workload")
	parallel := fs.Bool("parallel", false, "use the parallel_across_localities policy instead of sequential")
	workload := fs.String("workload", "reduce", "demo workload to run: reduce, scan, multimap")
	verbosity := fs.Int("v", 0, "log verbosity")
	config := fs.String("config", "", "optional JSON runtime config file")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	nlog.SetVerbosity(*verbosity)
	if *config != "" {
		if err := rtcfg.Load(*config); err != nil {
			nlog.Errorf("loading config %s: %v", *config, err)
			return 1
		}
	}

	policy := rt.Sequential
	if *parallel {
		policy = rt.Parallel
	}

	return rt.Run(*localities, func(argv []string) int {
		return runWorkload(*workload, *size, policy)
	}, argv)
}

func runWorkload(name string, size int, policy rt.Policy) int {
	nlog.Infoln("starting workload", name, "size", size, "policy", policy.String(), "localities", rt.NumLocalities())
	switch name {
	case "reduce":
		return runReduce(size, policy)
	case "scan":
		return runScan(size, policy)
	case "multimap":
		return runMultimap(size, policy)
	default:
		fmt.Fprintf(os.Stderr, "unknown workload %q\n", name)
		return 2
	}
}

func runReduce(size int, policy rt.Policy) int {
	v := vector.New[int64](size)
	if err := algo.Generate(v, v.Begin(), v.End(), func(k int) int64 { return int64(k) }, policy); err != nil {
		nlog.Errorln("generate failed:", err)
		return 1
	}
	sum, err := algo.Reduce(v, v.Begin(), v.End(), int64(0), func(acc, x int64) int64 { return acc + x }, policy)
	if err != nil {
		nlog.Errorln("reduce failed:", err)
		return 1
	}
	want := int64(size-1) * int64(size) / 2
	nlog.Infoln("sum:", sum, "want:", want)
	if sum != want {
		nlog.Errorln("mismatch")
		return 1
	}
	return 0
}

func runScan(size int, policy rt.Policy) int {
	v := vector.New[int64](size)
	if err := algo.Fill(v, v.Begin(), v.End(), int64(1), policy); err != nil {
		nlog.Errorln("fill failed:", err)
		return 1
	}
	if err := algo.InclusiveScan(v, v.Begin(), v.End(), func(acc, x int64) int64 { return acc + x }, policy); err != nil {
		nlog.Errorln("scan failed:", err)
		return 1
	}
	last, err := v.Get(v.End() - 1)
	if err != nil {
		nlog.Errorln("get failed:", err)
		return 1
	}
	nlog.Infoln("scan last element:", last, "want:", size)
	if int(last) != size {
		nlog.Errorln("mismatch")
		return 1
	}
	return 0
}

func runMultimap(size int, policy rt.Policy) int {
	m := multimap.New[int, int64](nil)
	h := rt.NewHandle()
	for k := 0; k < size; k++ {
		if err := m.InsertAsync(h, k%97, int64(k)); err != nil {
			nlog.Errorln("insert failed:", err)
			return 1
		}
	}
	if err := h.WaitForCompletion(); err != nil {
		nlog.Errorln("insert wait failed:", err)
		return 1
	}
	n, err := m.NumberKeys()
	if err != nil {
		nlog.Errorln("numberkeys failed:", err)
		return 1
	}
	nlog.Infoln("distinct keys:", n)
	return 0
}
