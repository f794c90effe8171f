package errors

import "strings"

// Errors is a non-empty list of errors. Functions in this package never return
// an empty Errors value, so comparing against nil is enough to detect failure.
type Errors []error

// Error joins the messages of all errors, one per line.
func (m Errors) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the collected errors to Is and As.
func (m Errors) Unwrap() []error {
	return append([]error(nil), m...)
}

// Append adds err to errs, flattening nested Errors. A nil err is ignored.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	if nested, ok := err.(Errors); ok {
		return append(errs, nested...)
	}
	return append(errs, err)
}

// Combine merges e and f into a single error, returning nil when both are nil.
func Combine(e, f error) error {
	switch {
	case e == nil:
		return f
	case f == nil:
		return e
	}
	var errs Errors
	errs = Append(errs, e)
	errs = Append(errs, f)
	return errs
}

// Defer combines the result of f into *err; use it for deferred Close calls.
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
