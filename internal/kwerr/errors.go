// Package kwerr defines the two error classes of keyword-argument handling:
// construction errors (a Record or ArgList was built or indexed wrongly) and
// conversion errors (a value has no coercion path to the requested type).
//
// Both are programmer errors. Every fallible operation offers an
// error-returning form and a panicking Must form; the panic value is one of
// the error types below, so the diagnostic names the failing key, index or
// conversion.
package kwerr

import (
	"errors"
	"fmt"
)

// Code categorizes an error.
type Code string

const (
	// CodeDuplicateKey indicates two Record entries share a key.
	CodeDuplicateKey Code = "DUPLICATE_KEY"

	// CodeKeyNotAllowed indicates a key outside the Record's declared whitelist.
	CodeKeyNotAllowed Code = "KEY_NOT_ALLOWED"

	// CodeIndexOutOfRange indicates an ArgList index outside [-len, len).
	CodeIndexOutOfRange Code = "INDEX_OUT_OF_RANGE"

	// CodeIncorrectConversion indicates no coercion path between two types.
	CodeIncorrectConversion Code = "INCORRECT_CONVERSION"

	// CodeMalformedText indicates text that does not parse as the target number.
	CodeMalformedText Code = "MALFORMED_TEXT"

	// CodeOutOfRange indicates a parsed number the target cannot represent.
	CodeOutOfRange Code = "OUT_OF_RANGE"

	// CodeUnsupportedType indicates a type outside the supported categories.
	CodeUnsupportedType Code = "UNSUPPORTED_TYPE"
)

// ConstructionError reports a Record or ArgList that was built or indexed
// incorrectly.
type ConstructionError struct {
	Code    Code
	Message string

	// Name is the human-readable key name when known.
	Name string

	// Key is the numeric key hash for key errors.
	Key uint64

	// Index and Len describe ArgList indexing errors.
	Index int
	Len   int
}

func (e *ConstructionError) Error() string {
	switch e.Code {
	case CodeIndexOutOfRange:
		return fmt.Sprintf("%s: %s (index=%d, len=%d)", e.Code, e.Message, e.Index, e.Len)
	default:
		if e.Name != "" {
			return fmt.Sprintf("%s: %s (key=%q)", e.Code, e.Message, e.Name)
		}
		return fmt.Sprintf("%s: %s (key=%#x)", e.Code, e.Message, e.Key)
	}
}

// ConversionError reports a failed coercion from one type to another.
type ConversionError struct {
	Code Code

	// From and To are the source and target type names.
	From string
	To   string

	// Input is the offending text for parse failures.
	Input string

	Err error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("%s: cannot convert %s to %s", e.Code, e.From, e.To)
	if e.Input != "" {
		msg += fmt.Sprintf(" (input=%q)", e.Input)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewDuplicateKey creates a ConstructionError for a repeated key.
func NewDuplicateKey(name string, k uint64) *ConstructionError {
	return &ConstructionError{
		Code:    CodeDuplicateKey,
		Message: "duplicate key in record",
		Name:    name,
		Key:     k,
	}
}

// NewKeyNotAllowed creates a ConstructionError for a key outside the whitelist.
func NewKeyNotAllowed(name string, k uint64) *ConstructionError {
	return &ConstructionError{
		Code:    CodeKeyNotAllowed,
		Message: "key is not in the record's whitelist",
		Name:    name,
		Key:     k,
	}
}

// NewIndexOutOfRange creates a ConstructionError for a bad ArgList index.
func NewIndexOutOfRange(index, length int) *ConstructionError {
	return &ConstructionError{
		Code:    CodeIndexOutOfRange,
		Message: "argument index out of range",
		Index:   index,
		Len:     length,
	}
}

// NewConversion creates a ConversionError with the given code.
func NewConversion(code Code, from, to string) *ConversionError {
	return &ConversionError{Code: code, From: from, To: to}
}

// NewMalformed creates a ConversionError for unparseable text.
func NewMalformed(from, to, input string) *ConversionError {
	return &ConversionError{Code: CodeMalformedText, From: from, To: to, Input: input}
}

// IsConstructionError reports whether err is or wraps a ConstructionError.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}

// IsConversionError reports whether err is or wraps a ConversionError.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}

// CodeOf extracts the Code of a wrapped kwerr error, or "" if err is not one.
func CodeOf(err error) Code {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var cv *ConversionError
	if errors.As(err, &cv) {
		return cv.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
