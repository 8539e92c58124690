package floorplan

import "errors"

// Domain errors for the floorplan package.
//
// These errors can be checked using errors.Is(). All of them carry the
// offending section or field name in the wrapped message, since the
// Command Surface forwards them verbatim to the operator.
var (
	// ErrMissingSection is returned when a required INI section is absent.
	ErrMissingSection = errors.New("floorplan: missing section")

	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("floorplan: missing field")

	// ErrBadValue is returned when a field value fails to parse.
	ErrBadValue = errors.New("floorplan: bad value")

	// ErrMissingImage is returned when no floor-image key is present.
	ErrMissingImage = errors.New("floorplan: missing floor image")

	// ErrEmptyImage is returned when the referenced image file is empty.
	ErrEmptyImage = errors.New("floorplan: empty floor image")

	// ErrImageRead is returned when the referenced image file cannot be read.
	ErrImageRead = errors.New("floorplan: reading floor image")
)
