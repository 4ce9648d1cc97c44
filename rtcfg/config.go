// Package rtcfg holds process-wide runtime configuration, loaded from JSON via
// jsoniter, in the style of the teacher's global config object (cmn.GCO): one
// atomically-swappable pointer, read through an accessor, written only at
// bootstrap.
package rtcfg

import (
	"os"
	"runtime"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the process-wide runtime configuration.
type Config struct {
	// Concurrency is the number of worker goroutines each locality runs.
	// Defaults to runtime.GOMAXPROCS(0).
	Concurrency int `json:"concurrency"`

	// DispatchQueueDepth bounds the number of in-flight shipped closures a
	// locality's mailbox will buffer before Submit blocks.
	DispatchQueueDepth int `json:"dispatch_queue_depth"`

	// DMAChunkElems bounds how many elements a single internal dma transfer
	// moves at a time; large transfers are chunked to bound memory use.
	DMAChunkElems int `json:"dma_chunk_elems"`

	// DefaultPolicyParallel, when true, makes parallel_across_localities the
	// algorithm default instead of sequential_across_localities. The spec's
	// own default is sequential; this exists only for experimentation and
	// defaults to false.
	DefaultPolicyParallel bool `json:"default_policy_parallel"`
}

func defaultConfig() *Config {
	return &Config{
		Concurrency:        runtime.GOMAXPROCS(0),
		DispatchQueueDepth: 1024,
		DMAChunkElems:      1 << 16,
	}
}

var global atomic.Value // holds *Config

func init() {
	global.Store(defaultConfig())
}

// Global returns the current process-wide configuration.
func Global() *Config { return global.Load().(*Config) }

// SetGlobal installs a new process-wide configuration. Intended to be called
// (directly or through Load) before rt.Initialize, since Initialize reads
// Concurrency and DispatchQueueDepth when it starts the localities.
func SetGlobal(c *Config) { global.Store(c) }

// Load reads a JSON configuration file and installs it as the global config,
// starting from the built-in default: fields absent from the file keep their
// default value, fields present in it (including explicit zeros) override it.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c := defaultConfig()
	if err := jsonAPI.Unmarshal(data, c); err != nil {
		return err
	}
	SetGlobal(c)
	return nil
}
