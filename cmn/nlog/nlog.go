// Package nlog is a minimal structured logger used throughout the runtime.
// It mirrors the log surface every other package expects (Infoln, Errorln,
// Warningln, a global verbosity knob) without pulling in a third-party logger.
package nlog

import (
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

var (
	std   = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	mu    sync.Mutex
	level int32 // verbosity: higher means more verbose
)

// SetVerbosity sets the global verbosity level used by FastV.
func SetVerbosity(v int) { atomic.StoreInt32(&level, int32(v)) }

// FastV reports whether logging at verbosity v is currently enabled for module.
// The module argument exists for call-site parity with the teacher's logging
// idiom (per-module verbosity); this implementation uses one global knob.
func FastV(v int, _ string) bool { return atomic.LoadInt32(&level) >= int32(v) }

func output(prefix string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	std.Output(3, prefix+fmt.Sprintln(args...)) //nolint:errcheck
}

func outputf(prefix, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	std.Output(3, prefix+fmt.Sprintf(format, args...)+"\n") //nolint:errcheck
}

func Infoln(args ...interface{})  { output("I ", args...) }
func Warningln(args ...interface{}) { output("W ", args...) }
func Errorln(args ...interface{}) { output("E ", args...) }

func Infof(format string, args ...interface{})    { outputf("I ", format, args...) }
func Warningf(format string, args ...interface{}) { outputf("W ", format, args...) }
func Errorf(format string, args ...interface{})   { outputf("E ", format, args...) }
