package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedType means an atomic name was not found among base
	// types, aliases, or refinements, or a descriptor element was not a
	// string, number, or sequence.
	ErrUnresolvedType = errors.New("type could not be resolved")

	// ErrArityMismatch means a template or refinement instantiation
	// supplied the wrong number of arguments.
	ErrArityMismatch = errors.New("wrong number of template arguments")

	// ErrSpellingMissing means a backend has no spelling registered for
	// a type that actually needs rendering.
	ErrSpellingMissing = errors.New("backend spelling not registered")

	// ErrConverterMissing means no ancestor of a type has a conversion
	// template registered in the requested direction.
	ErrConverterMissing = errors.New("conversion not registered")

	// ErrKeyConflict means a refinement template parameter collides
	// with an existing alias during dependent-type resolution.
	ErrKeyConflict = errors.New("registry key conflict")
)

func unresolvedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnresolvedType, fmt.Sprintf(format, args...))
}

func arityf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArityMismatch, fmt.Sprintf(format, args...))
}

func spellingf(backend string, t any) error {
	return fmt.Errorf("%w: backend %v has no entry for %v", ErrSpellingMissing, backend, keyOf(t))
}
