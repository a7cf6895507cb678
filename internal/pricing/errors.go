package pricing

import "errors"

var (
	// ErrUnknownModel is returned when a computation references a controller model
	// that is not present in the catalog snapshot.
	ErrUnknownModel = errors.New("unknown controller model")
	// ErrUnknownCatalogReference is returned when a selection references a service
	// or option id that does not exist in the snapshot. It usually means the
	// client is working against a stale catalog.
	ErrUnknownCatalogReference = errors.New("unknown catalog reference")
	// ErrInvalidSelection is returned when an option is selected for a service
	// that is not part of the current selection.
	ErrInvalidSelection = errors.New("invalid selection")
)
