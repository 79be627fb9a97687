package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies planning failures.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

const (
	CodeSchema           ErrorCode = "SCHEMA"            // Missing or malformed input columns
	CodeGeometry         ErrorCode = "GEOMETRY"          // Order dimensions cannot be canonicalized
	CodeDemandExhaustion ErrorCode = "DEMAND_EXHAUSTION" // Packer invariant violated
	CodeConfig           ErrorCode = "CONFIG"            // Unusable settings
)

// Error is the single error type produced by the planning pipeline.
// Any Error aborts the whole plan; no partial plan is ever returned.
type Error struct {
	Code    ErrorCode
	Message string
	Detail  string
	Cause   error
}

// Error formats as "[CODE] message: detail"; the detail is omitted when empty.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of e carrying detail.
func (e *Error) WithDetail(detail string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

func NewSchemaError(format string, args ...any) *Error {
	return &Error{Code: CodeSchema, Message: fmt.Sprintf(format, args...)}
}

func NewGeometryError(format string, args ...any) *Error {
	return &Error{Code: CodeGeometry, Message: fmt.Sprintf(format, args...)}
}

func NewDemandExhaustionError(format string, args ...any) *Error {
	return &Error{Code: CodeDemandExhaustion, Message: fmt.Sprintf(format, args...)}
}

func NewConfigError(format string, args ...any) *Error {
	return &Error{Code: CodeConfig, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether any error in err's chain is an *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Code == code {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}
