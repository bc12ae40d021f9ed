package codegen

import "github.com/pkg/errors"

// unsupportedError marks the "unsupported construct" row of spec §7's
// error table: List(AnyPointer), List(Interface), and any non-primitive
// Const. It is a distinct type (rather than a bare wrapped error) so
// callers that want to distinguish "schema asked for something this
// generator deliberately never implements" from "internal bug" can do so
// with errors.As.
type unsupportedError struct {
	construct string
	where     string
}

func (e *unsupportedError) Error() string {
	return "unsupported construct " + e.construct + " in " + e.where
}

func errUnsupported(construct, where string) error {
	return errors.WithStack(&unsupportedError{construct: construct, where: where})
}

// malformedError marks the "malformed input" row: an unrecognized
// Type/Value discriminant, which can only happen if the request was
// produced by something other than a well-behaved schema compiler.
func errMalformed(where string, cause error) error {
	if cause != nil {
		return errors.Wrapf(cause, "malformed schema input in %s", where)
	}
	return errors.Errorf("malformed schema input in %s", where)
}
