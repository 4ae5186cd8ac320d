package types

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the error categories the kernel surfaces.
type ErrorKind string

const (
	NotFound               ErrorKind = "not_found"
	MissingBinding         ErrorKind = "missing_binding"
	InputValidationFailed  ErrorKind = "input_validation_failed"
	OutputValidationFailed ErrorKind = "output_validation_failed"
	Cancelled              ErrorKind = "cancelled"
	MaxIterationsExceeded  ErrorKind = "max_iterations_exceeded"
	FlowThrow              ErrorKind = "flow_throw"
	UnknownHandle          ErrorKind = "unknown_handle"
	UnexpectedError        ErrorKind = "unexpected_error"
)

// Diagnostic describes one schema validation failure.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is the kernel's normalised error shape: {code, message, data?}.
// It generalises the teacher's single-purpose EngineError constructor
// into the full error-kind table the composition engine needs.
type Error struct {
	Code        ErrorKind
	Message     string
	Data        any
	Diagnostics []Diagnostic
	Cause       error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds a kernel error of the given kind.
func NewError(code ErrorKind, message string, data any) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

// Wrap builds a kernel error of the given kind wrapping cause.
func Wrap(code ErrorKind, cause error) *Error {
	if cause == nil {
		return NewError(code, "", nil)
	}
	return &Error{Code: code, Message: cause.Error(), Cause: cause}
}

// AsMap projects the error into the {code, message, data?} shape used
// by `try`/`catch` slot variables and log records.
func (e *Error) AsMap() map[string]any {
	out := map[string]any{
		"code":    string(e.Code),
		"message": e.Message,
	}
	if e.Data != nil {
		out["data"] = e.Data
	}
	return out
}

// Normalize converts an arbitrary panic/error value into the kernel's
// {code, message, data?} Error shape. If v is already a *Error, it is
// returned unchanged so existing code/message/data are preserved.
func Normalize(v any) *Error {
	switch t := v.(type) {
	case *Error:
		return t
	case error:
		return &Error{Code: UnexpectedError, Message: t.Error(), Cause: t}
	case map[string]any:
		e := &Error{Code: UnexpectedError}
		if code, ok := t["code"].(string); ok && code != "" {
			e.Code = ErrorKind(code)
		}
		if msg, ok := t["message"].(string); ok {
			e.Message = msg
		}
		if data, ok := t["data"]; ok {
			e.Data = data
		}
		return e
	case string:
		return &Error{Code: UnexpectedError, Message: t}
	default:
		return &Error{Code: UnexpectedError, Message: fmt.Sprintf("%v", t)}
	}
}

// IsCancelled reports whether err is (or wraps) a cancellation error.
func IsCancelled(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == Cancelled
	}
	return false
}
