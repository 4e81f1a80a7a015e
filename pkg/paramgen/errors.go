package paramgen

import "errors"

var (
	// ErrInvalidName is returned when a parameter name is empty or contains
	// whitespace.
	ErrInvalidName = errors.New("paramgen: invalid parameter name")
	// ErrDuplicate is returned when a name was already declared.
	ErrDuplicate = errors.New("paramgen: duplicate parameter")
	// ErrUnknownKind is returned for kinds outside the supported set.
	ErrUnknownKind = errors.New("paramgen: unknown kind")
	// ErrKindMismatch is returned when a value does not match the declared kind.
	ErrKindMismatch = errors.New("paramgen: kind mismatch")
	// ErrInvalidBounds is returned when bounds are supplied for a non-numeric
	// kind or the bounds list is not exactly min, max.
	ErrInvalidBounds = errors.New("paramgen: invalid bounds")
	// ErrOutOfRange is returned when min > max or a value falls outside
	// [min, max].
	ErrOutOfRange = errors.New("paramgen: value out of range")
	// ErrUnknownParameter is returned when a value references an undeclared
	// parameter.
	ErrUnknownParameter = errors.New("paramgen: unknown parameter")
)
