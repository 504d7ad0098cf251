package zipper

import (
	"errors"
	"fmt"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// Component identifiers used to tag errors for reporting.
const (
	ComponentNameResolver = "NameResolver"
	ComponentScanner      = "TreeScanner"
	ComponentWriter       = "Writer"
)

// ErrOutputExists is returned when the output archive path is already taken.
var ErrOutputExists = ports.ErrArchiveExists

// Error is a failure inside one of the zipper's components.
type Error struct {
	Component string
	Op        string
	Path      string
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentOf returns the component tag carried by err, or "" if there is none.
func ComponentOf(err error) string {
	var ze *Error
	if errors.As(err, &ze) {
		return ze.Component
	}
	return ""
}

func newError(component, op, path string, err error) *Error {
	return &Error{Component: component, Op: op, Path: path, Err: err}
}
