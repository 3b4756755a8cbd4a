// Package errors provides coded errors shared by the rules engine, the
// persistence layer and the character service.
package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Code categorizes an error so callers can branch without string matching
type Code string

const (
	// CodeUnknown is used when a foreign error is wrapped without a code
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller passed a malformed argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a skill, character or record does not exist
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a record twice
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal indicates a storage or encoding failure
	CodeInternal Code = "internal"

	// CodeValidation indicates an input outside the rule vocabulary,
	// such as an unknown characteristic or a negative sanity loss
	CodeValidation Code = "validation"

	// CodeParse indicates a dice string or record could not be parsed
	CodeParse Code = "parse"

	// CodeContract indicates a skill or character variant does not satisfy
	// the shape the engine requires
	CodeContract Code = "contract"
)

// Error carries a code, the failing call's message and metadata such as the
// character ID or the skill involved
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a key/value pair to the error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err. A coded cause keeps its code and metadata.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{Code: CodeUnknown, Message: message, Cause: err}
	if coded := outermost(err); coded != nil {
		wrapped.Code = coded.Code
		if coded.Meta != nil {
			wrapped.Meta = maps.Clone(coded.Meta)
		}
	}
	return wrapped
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error and overrides its code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func NotFoundf(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return newf(CodeAlreadyExists, format, args...)
}

// Validationf reports a value the rules do not accept
func Validationf(format string, args ...any) *Error {
	return newf(CodeValidation, format, args...)
}

// Parsef reports a dice string or record that could not be read
func Parsef(format string, args ...any) *Error {
	return newf(CodeParse, format, args...)
}

// Contractf reports a skill or variant missing part of the required shape
func Contractf(format string, args ...any) *Error {
	return newf(CodeContract, format, args...)
}

// outermost finds the first coded error in the chain
func outermost(err error) *Error {
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return nil
}

func hasCode(err error, code Code) bool {
	return GetCode(err) == code
}

func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func IsInvalidArgument(err error) bool {
	return hasCode(err, CodeInvalidArgument)
}

func IsAlreadyExists(err error) bool {
	return hasCode(err, CodeAlreadyExists)
}

func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

func IsParse(err error) bool {
	return hasCode(err, CodeParse)
}

func IsContract(err error) bool {
	return hasCode(err, CodeContract)
}

// GetCode returns the code of the outermost coded error
func GetCode(err error) Code {
	if coded := outermost(err); coded != nil {
		return coded.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of the outermost coded error
func GetMeta(err error) map[string]any {
	if coded := outermost(err); coded != nil {
		return coded.Meta
	}
	return nil
}
