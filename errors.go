package leash

import (
	"errors"

	"github.com/pawhub/leash/schema"
)

var (
	// ErrForbidden is returned when no grant covers a request.
	ErrForbidden = errors.New("leash: access denied")

	// ErrNotFound is returned when a single-document fetch matches
	// nothing the caller may see.
	ErrNotFound = errors.New("leash: document not found")

	// ErrValidation is the sentinel wrapped by every request validation
	// failure: unknown entity types, unresolvable field paths, bad sort
	// fields, free text over entities with no search fields.
	ErrValidation = schema.ErrInvalidPath
)
