package seq

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is the only failure this package reports.
var ErrIndexOutOfRange = errors.New("index out of range")

// Op names the operation that rejected an index.
type Op string

const (
	OpGet    Op = "get"
	OpRemove Op = "remove"
	OpInsert Op = "insert"
)

// IndexError reports an index that was not live at the time of the call.
// It unwraps to ErrIndexOutOfRange.
type IndexError struct {
	Op    Op
	Index int
	Len   int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("seq: %s: index %d out of range [0:%d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// IsIndexOutOfRange reports whether err is, or wraps, ErrIndexOutOfRange.
func IsIndexOutOfRange(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
