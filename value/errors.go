package value

import (
	"errors"
	"fmt"
)

var (
	// ErrSerializationConflict is returned when a non-null value encodes to
	// the byte sequence reserved for Null.
	ErrSerializationConflict = errors.New("encoding is the null sentinel {0x00}, which is reserved for null")

	// ErrMalformedInput is returned when bytes do not parse as the requested type.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidValue is returned when a Value cannot be encoded.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidType is returned when a decode target is unset or incomplete.
	ErrInvalidType = errors.New("invalid type")
)

// MalformedInputError describes bytes that could not be decoded as Kind.
// It matches ErrMalformedInput and the underlying cause with errors.Is.
type MalformedInputError struct {
	Kind  Kind
	Input []byte
	Err   error
}

const maxQuotedInput = 64

func (e *MalformedInputError) Error() string {
	in := e.Input
	suffix := ""
	if len(in) > maxQuotedInput {
		in, suffix = in[:maxQuotedInput], "..."
	}
	if e.Err == nil {
		return fmt.Sprintf("decode %s: malformed input %q%s", e.Kind, in, suffix)
	}
	return fmt.Sprintf("decode %s: malformed input %q%s: %v", e.Kind, in, suffix, e.Err)
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedInput}
	}
	return []error{ErrMalformedInput, e.Err}
}

func malformed(k Kind, input []byte, err error) error {
	return &MalformedInputError{Kind: k, Input: input, Err: err}
}

// InvalidEnumValueError is returned when decoded text names no constant of
// the target enum. It is a specialization of ErrMalformedInput.
type InvalidEnumValueError struct {
	Enum string
	Text string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid enum value %q for enum %s", e.Text, e.Enum)
}

func (e *InvalidEnumValueError) Is(target error) bool {
	return target == ErrMalformedInput
}
