package mesh

import "errors"

// Load-time errors. A load failing with one of these leaves the model in its
// previous state.
var (
	ErrUnknownShape          = errors.New("unknown element shape")
	ErrMalformedConnectivity = errors.New("malformed connectivity")
	ErrMalformedCoordinates  = errors.New("malformed coordinates")
	ErrMalformedField        = errors.New("malformed field")
)

// Update-time errors. The offending delta is dropped.
var (
	ErrSchemaDrift     = errors.New("delta changes mesh schema")
	ErrPrematureUpdate = errors.New("update received before initial load")
)

// ErrUnsupportedField is returned when switching to a field the catalog does
// not contain.
var ErrUnsupportedField = errors.New("unsupported field")
