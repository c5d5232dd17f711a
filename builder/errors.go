package builder

import (
	"errors"
	"fmt"
)

// ErrGraphSpecInvalid is the sentinel wrapped by every validation failure
// from GraphBuilder.Build (spec §4.4, §7: "fail with GraphSpecInvalid and
// a human cause").
var ErrGraphSpecInvalid = errors.New("builder: graph specification is invalid")

// SpecError carries the human-readable cause alongside ErrGraphSpecInvalid
// so callers can both errors.Is(err, ErrGraphSpecInvalid) and read Cause.
type SpecError struct {
	Cause string
}

func (e *SpecError) Error() string {
	return "builder: " + e.Cause
}

func (e *SpecError) Unwrap() error { return ErrGraphSpecInvalid }

func specErr(format string, args ...interface{}) error {
	return &SpecError{Cause: fmt.Sprintf(format, args...)}
}
