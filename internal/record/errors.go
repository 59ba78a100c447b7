package record

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSchema   = errors.New("record: invalid schema")
	ErrIndexOutOfRange = errors.New("record: index out of range")
	ErrNoSuchField     = errors.New("record: no such field")
	ErrTypeMismatch    = errors.New("record: type mismatch")
)

// TypeMismatchError is returned by checked reads when the stored value is
// not of the expected type. It matches ErrTypeMismatch with errors.Is.
type TypeMismatchError struct {
	Want  string
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("not an instance of %s: %s", e.Want, formatValue(e.Value))
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func errIndex(pos, size int) error {
	return fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, pos, size)
}

func errNoField(name string) error {
	return fmt.Errorf("%w: %q", ErrNoSuchField, name)
}
