// Package goid extracts the runtime-assigned goroutine id of the calling
// goroutine. It exists for exactly one purpose in this module: letting a
// worker goroutine look up "which locality am I currently running for"
// without threading an extra parameter through every kernel signature the
// spec defines. There is no supported stdlib API for this, so it is obtained
// by parsing the header line of runtime.Stack — slow enough that callers
// should cache the result per task invocation, never per element.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Get returns the current goroutine's runtime id.
func Get() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	// "goroutine 123 [running]:\n..."
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	idx := bytes.IndexByte(buf, ' ')
	if idx < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:idx]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
