package ticket

import (
	"errors"
	"fmt"
)

// Code identifies a failure category. The set is closed: every error the
// registry can produce carries exactly one of these codes, and callers
// dispatch on the code rather than on message text.
type Code string

const (
	// CodeIDInvalid indicates an operation received the reserved invalid
	// ticket ID (zero).
	CodeIDInvalid Code = "ID_INVALID"

	// CodeIDGenerationFailed indicates the bounded collision-avoidance loop
	// exhausted its attempts without finding an unused identifier.
	CodeIDGenerationFailed Code = "ID_GENERATION_FAILED"

	// CodeIDAlreadyExists indicates an explicit insertion targeted an
	// identifier that is already issued.
	CodeIDAlreadyExists Code = "ID_ALREADY_EXISTS"

	// CodeIDNotFound indicates a lookup for an identifier that is not issued.
	CodeIDNotFound Code = "ID_NOT_FOUND"

	// CodeIDExpired indicates a generated candidate was committed after
	// another insertion advanced the generation counter.
	CodeIDExpired Code = "ID_EXPIRED"

	// CodeIDNotScannable indicates a rescan of an entry whose scannable flag
	// is cleared.
	CodeIDNotScannable Code = "ID_NOT_SCANNABLE"

	// CodeEntryAlreadyExists indicates an insertion whose canonical
	// (first name, last name, grade, category) tuple is already live.
	CodeEntryAlreadyExists Code = "ENTRY_ALREADY_EXISTS"

	// CodeIntegerOverflow indicates a checked arithmetic operation would
	// exceed its integer width.
	CodeIntegerOverflow Code = "INTEGER_OVERFLOW"

	// CodeInvalidParameter indicates a malformed argument, such as a
	// non-alphanumeric character in a base-36 identifier.
	CodeInvalidParameter Code = "INVALID_PARAMETER"

	// CodeInvalidEntryField indicates a grade or grade category outside its
	// allowed range.
	CodeInvalidEntryField Code = "INVALID_ENTRY_FIELD"

	// CodeInvalidString indicates a name field containing a character other
	// than a letter, space, or dash.
	CodeInvalidString Code = "INVALID_STRING"

	// CodeInvalidFilepath indicates a snapshot file could not be opened,
	// read, or written.
	CodeInvalidFilepath Code = "INVALID_FILEPATH"

	// CodeInvalidYAML indicates a snapshot document with a missing or
	// ill-typed field.
	CodeInvalidYAML Code = "INVALID_YAML"

	// CodeCorruptedTable indicates corruption encountered while walking the
	// table, or a snapshot whose header count disagrees with its entries.
	CodeCorruptedTable Code = "CORRUPTED_TABLE"

	// CodeCorruptedEntry indicates a direct access to an entry whose
	// integrity tag no longer matches.
	CodeCorruptedEntry Code = "CORRUPTED_TABLE_ENTRY"

	// CodeUnknown covers infrastructure failures with no better category.
	CodeUnknown Code = "UNKNOWN"
)

// Error is the error type produced by the registry. It pairs a Code from the
// closed taxonomy with a human-readable message and an optional underlying
// cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the given code and formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error that carries an underlying cause.
func WrapError(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsCode reports whether err (or any error it wraps) is a registry Error
// carrying the given code. Uses errors.As to handle wrapped errors.
func IsCode(err error, code Code) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// ErrorCode extracts the code from err. Returns CodeUnknown if err is not a
// registry Error.
func ErrorCode(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeUnknown
}
