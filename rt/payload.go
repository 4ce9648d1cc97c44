package rt

import jsoniter "github.com/json-iterator/go"

var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// copyTyped enforces the "closures shipped by the dispatch substrate receive
// copies of their argument payloads" invariant for typed-value arguments. A
// plain Go assignment already copies top-level value fields, but T may embed
// slices, maps, or pointers that would otherwise still alias the caller's
// memory; round-tripping through JSON (the only encoding in our dependency
// set that needs neither registration nor codegen for an arbitrary generic T,
// unlike gob or msgp) severs that aliasing. Types that don't marshal cleanly
// (closures, channels) fall back to the shallow copy a Go value parameter
// already performs.
func copyTyped[T any](v T) T {
	data, err := payloadJSON.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := payloadJSON.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// copyBytes returns an independent copy of b, enforcing the same isolation
// invariant for the byte-buffer argument shape.
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
