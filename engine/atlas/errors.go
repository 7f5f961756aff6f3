package atlas

import "errors"

// ErrPackingOverflow is returned if the rectangles do not fit into pages
// of the maximum size (or into the maximum number of pages).
var ErrPackingOverflow = errors.New("atlas: packing overflow")

// ErrInvalidLayout is returned by Verify.
var ErrInvalidLayout = errors.New("atlas: invalid layout")

// OptionsError is a validation error for packing options.
type OptionsError struct {
	Field  string
	Reason string
}

func (e *OptionsError) Error() string {
	return "atlas: invalid options." + e.Field + ": " + e.Reason
}
