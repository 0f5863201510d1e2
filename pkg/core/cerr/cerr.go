package cerr

import (
	"fmt"
	"net/http"
)

// Error attaches an HTTP status code to an error, so the restful
// adapters can report it without knowing about its origin.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

// NetworkFailure wraps a failed read of an upstream service, such as
// a rejected request or a non-success status or a malformed payload.
func NetworkFailure(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadGateway}
}

// Timeout wraps an error which was caused by a deadline or an early
// cancellation of the caller context.
func Timeout(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusGatewayTimeout}
}
