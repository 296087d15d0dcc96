package at

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldErrorKind classifies a codec failure. The codec never guesses at a
// malformed wire record; every failure is reported as one of these kinds.
type FieldErrorKind int

const (
	// ErrPrefixMismatch indicates a record did not begin with the prefix
	// the schema expected.
	ErrPrefixMismatch FieldErrorKind = iota
	// ErrMissingField indicates a required positional field had no token.
	ErrMissingField
	// ErrInvalidField indicates a token could not be parsed as the field's
	// type.
	ErrInvalidField
	// ErrTooLong indicates a string/slice field exceeded its declared
	// maximum length.
	ErrTooLong
	// ErrUnknownEnum indicates a textual or numeric enum discriminant had
	// no matching variant.
	ErrUnknownEnum
)

func (k FieldErrorKind) String() string {
	switch k {
	case ErrPrefixMismatch:
		return "prefix mismatch"
	case ErrMissingField:
		return "missing field"
	case ErrInvalidField:
		return "invalid field"
	case ErrTooLong:
		return "too long"
	case ErrUnknownEnum:
		return "unknown enum"
	default:
		return "unknown"
	}
}

// FieldError is returned by the codec for any malformed request or
// response. Pos is the zero-indexed positional field the error applies to;
// it is -1 for whole-record errors such as ErrPrefixMismatch.
type FieldError struct {
	Pos    int
	Kind   FieldErrorKind
	Reason string
	Value  string
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case ErrPrefixMismatch:
		return "at: prefix mismatch"
	case ErrMissingField:
		return fmt.Sprintf("at: missing field at position %d", e.Pos)
	case ErrInvalidField:
		if e.Reason != "" {
			return fmt.Sprintf("at: invalid field at position %d: %s", e.Pos, e.Reason)
		}
		return fmt.Sprintf("at: invalid field at position %d", e.Pos)
	case ErrTooLong:
		return fmt.Sprintf("at: field at position %d exceeds maximum length", e.Pos)
	case ErrUnknownEnum:
		return fmt.Sprintf("at: unknown enum variant %q at position %d", e.Value, e.Pos)
	default:
		return "at: codec error"
	}
}

// CMEError indicates the modem returned a numeric or textual +CME ERROR in
// response to a command.
type CMEError string

func (e CMEError) Error() string { return "at: +CME ERROR: " + string(e) }

// ErrError indicates the modem returned a bare ERROR with no +CME detail.
var ErrError = errors.New("at: ERROR")

// ErrClosed indicates an operation cannot be performed because the
// underlying transport has been closed (Read returned EOF or an error).
var ErrClosed = errors.New("at: closed")

// ErrTimeout indicates the command's schema timeout elapsed before the
// modem produced a final result code.
var ErrTimeout = errors.New("at: command timeout")

// newResultError parses a status line ("ERROR", "+CME ERROR: n") into an
// error value.
func newResultError(line string) error {
	switch {
	case hasPrefixFold(line, "+CME ERROR:"):
		return CMEError(trimColonPrefix(line, len("+CME ERROR:")))
	case line == "ERROR" || hasPrefixFold(line, "ERROR"):
		return ErrError
	default:
		return nil
	}
}
