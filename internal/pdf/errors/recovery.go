package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError carries a recovered panic value and the stack it was raised on
type PanicError struct {
	Op         string
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", e.Op, e.Value)
}

// Guard runs fn and converts a panic inside it into a *PanicError.
// The PDF decoder panics on some malformed objects instead of returning
// errors, so every call into it goes through Guard.
func Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Op:         op,
				Value:      r,
				StackTrace: string(debug.Stack()),
			}
		}
	}()
	return fn()
}
