package howto

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	EMALFORMED = "malformed_document"
	EMISSING   = "missing_required_field"
)

// ErrRejected is returned by ResolveImage when an image reference cannot be
// turned into an absolute HTTP(S) URL. It never escapes the extraction
// pipeline: rejected references are dropped from the guide.
var ErrRejected = errors.New("image reference rejected")

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Field is the guide field an EMISSING error refers to.
	Field FieldKind
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("howto error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// MalformedDocument returns an EMALFORMED error. The document cannot be
// processed at all and should be skipped.
func MalformedDocument(format string, args ...any) *Error {
	return Errorf(EMALFORMED, format, args...)
}

// MissingRequiredField returns an EMISSING error for the given field.
func MissingRequiredField(field FieldKind) *Error {
	return &Error{
		Code:    EMISSING,
		Message: fmt.Sprintf("required field %q not found", field),
		Field:   field,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorField unwraps an application error and returns the field it refers
// to. Returns an empty FieldKind for errors without a field.
func ErrorField(err error) FieldKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
