// Package errors is the fleetdash error type: a code for machines, a message
// for people and an optional offending field. Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for clients and for status mapping
type ErrorCode uint16

// codes are part of the wire format, append only
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeInvalidArgument // well formed input the domain rejects
	ErrorCodeValidation      // input failed binding rules
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDB
	ErrorCodeWarehouse
	ErrorCodeMethodNotAllowed
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests:  http.StatusTooManyRequests,
	ErrorCodeInvalidArgument:  http.StatusUnprocessableEntity,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeJSON:             http.StatusBadRequest,
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeWarehouse:        http.StatusBadGateway,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
}

// HTTPStatusCode maps a code to a status; anything unmapped is a 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a code, a client safe message, an optional field and op
// and the wrapped cause
type Error struct {
	code  ErrorCode
	text  string
	field string
	op    string
	cause error
}

// Wire is what the envelope serializes
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error renders text and, for logs, the cause; clients only ever see text
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.text
	}
	return e.text + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Op() string      { return e.op }

// WireFrom renders any error for the client; the cause never leaks for our errors
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.text, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// CodeOf extracts the code from anywhere in the chain, Unknown otherwise
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As returns the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// retag copies the *Error in err and applies set; foreign errors pass through
func retag(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	set(&c)
	return &c
}

// WithField names the input field a client should fix
func WithField(err error, field string) error {
	return retag(err, func(e *Error) { e.field = field })
}

// WithOp labels where err surfaced, for logs
func WithOp(err error, op string) error {
	return retag(err, func(e *Error) { e.op = op })
}

func New(code ErrorCode, text string) error { return &Error{code: code, text: text} }

func Newf(code ErrorCode, format string, a ...any) error { return New(code, fmt.Sprintf(format, a...)) }

// Wrap keeps cause for errors.Is and logs behind a client safe text
func Wrap(cause error, code ErrorCode, text string) error {
	return &Error{code: code, text: text, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error   { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error    { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error   { return Newf(ErrorCodePanic, format, a...) }

// Retryable reports whether a store error is transient on any backend
func Retryable(err error) bool { return IsPostgresRetryable(err) || IsWarehouseRetryable(err) }
