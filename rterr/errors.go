// Package rterr defines the error kinds from the runtime's error-handling
// design: InvalidLocality, ResultTruncated, UserKernelFailed,
// HandleDestroyedWithOutstanding, and ContainerContractViolation.
//
// Synchronous operations return these directly; asynchronous operations
// attach them to the owning Handle and surface them at the first
// wait_for_completion, per the propagation policy.
package rterr

import "github.com/pkg/errors"

// InvalidLocality is returned when a target locality ID falls outside
// [0, num_localities()).
type InvalidLocality struct {
	ID int
	N  int
}

func (e *InvalidLocality) Error() string {
	return errors.Errorf("invalid locality %d: valid range is [0, %d)", e.ID, e.N).Error()
}

// ResultTruncated is returned when a caller-supplied result buffer is smaller
// than what the remote kernel wrote.
type ResultTruncated struct {
	Want int
	Got  int
}

func (e *ResultTruncated) Error() string {
	return errors.Errorf("result truncated: kernel wrote %d bytes into a %d-byte buffer", e.Want, e.Got).Error()
}

// UserKernelFailed wraps a panic or error raised by a user-supplied closure
// shipped to a locality.
type UserKernelFailed struct {
	Locality int
	Cause    error
}

func (e *UserKernelFailed) Error() string {
	return errors.Wrapf(e.Cause, "user kernel failed at locality %d", e.Locality).Error()
}

func (e *UserKernelFailed) Unwrap() error { return e.Cause }

// HandleDestroyedWithOutstanding is a fatal programming error: a Handle went
// out of scope (GC-finalized or explicitly released) without being waited on
// while tasks were still outstanding.
type HandleDestroyedWithOutstanding struct {
	GroupID    string
	Outstanding int32
}

func (e *HandleDestroyedWithOutstanding) Error() string {
	return errors.Errorf("handle %s destroyed with %d outstanding task(s)", e.GroupID, e.Outstanding).Error()
}

// ContainerContractViolation is raised, opportunistically, when a container's
// distributed-iterator implementation returns local_range results whose
// locality-ordered concatenation does not equal the requested global range.
type ContainerContractViolation struct {
	Reason string
}

func (e *ContainerContractViolation) Error() string {
	return errors.Errorf("container contract violation: %s", e.Reason).Error()
}

// Wrap attaches context to err in the style used across the dispatch and dma
// call paths, preserving it for errors.Is/errors.As.
func Wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
