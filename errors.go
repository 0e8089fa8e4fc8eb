package logdissect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDissectorsLocked is returned when the dissector catalog is modified
// after the plan has been compiled.
var ErrDissectorsLocked = errors.New("cannot change dissectors after the plan has been compiled")

// MissingDissectorsError reports a failed completeness check: one or more
// requested identifiers cannot be produced from the root by any chain of
// registered dissectors. The plan is left unusable.
type MissingDissectorsError struct {
	Missing []string
}

func (e *MissingDissectorsError) Error() string {
	return "no dissector chain produces: " + strings.Join(e.Missing, " ")
}

// InvalidDissectorError wraps a failure of a bound dissector's PrepareForRun.
type InvalidDissectorError struct {
	Kind string
	Err  error
}

func (e *InvalidDissectorError) Error() string {
	return fmt.Sprintf("dissector %q failed to prepare: %v", e.Kind, e.Err)
}

func (e *InvalidDissectorError) Unwrap() error { return e.Err }

// DissectionError wraps a failure raised by a dissector while processing one
// field during a parse call. It is fatal to that call only.
type DissectionError struct {
	Kind  string
	Field string
	Err   error
}

func (e *DissectionError) Error() string {
	return fmt.Sprintf("dissector %q failed on %q: %v", e.Kind, e.Field, e.Err)
}

func (e *DissectionError) Unwrap() error { return e.Err }

// CallbackError wraps a consumer callback failure with the identifier, name
// and value that were being delivered. Values already delivered to other
// callbacks in the same parse call are not rolled back.
type CallbackError struct {
	ID    string
	Name  string
	Value string
	Err   error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("target callback failed for id=%q name=%q value=%q: %v", e.ID, e.Name, e.Value, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }

// InvalidTargetError is raised by AddTarget when a callback does not have one
// of the accepted signatures.
type InvalidTargetError struct {
	Callback any
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target callback signature %T: want func(*R, string), func(*R, string, string), or an error-returning variant", e.Callback)
}

// NotUsableError is returned by parse calls on a Parser whose compilation
// failed. It carries the original compilation error.
type NotUsableError struct {
	Err error
}

func (e *NotUsableError) Error() string {
	return fmt.Sprintf("parser is not usable: %v", e.Err)
}

func (e *NotUsableError) Unwrap() error { return e.Err }
