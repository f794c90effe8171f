// Package errors wraps github.com/pkg/errors with the handful of helpers the
// logochemy packages and commands use, so that callers import one package for
// creating, wrapping and inspecting errors.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Errorf is re-exported from fmt so %w wrapping keeps working with Is/As.
var Errorf = fmt.Errorf

// New creates an error carrying a stack trace.
var New = errors.New

// Is is re-exported from the standard library.
var Is = stderrors.Is

// As is re-exported from the standard library.
var As = stderrors.As


// WrapfOrNil annotates err with a formatted message, returning nil if err is nil.
func WrapfOrNil(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.WithMessagef(err, format, args...)
}

// Wrapf is WrapfOrNil if err != nil, and Errorf otherwise: it never returns nil
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return Errorf(format, args...)
	}
	return WrapfOrNil(err, format, args...)
}
