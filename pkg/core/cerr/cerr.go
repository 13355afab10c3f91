// Package cerr provides error values which carry a categorization,
// as an HTTP status code, in addition to a wrapped cause. The core
// layer returns these errors in order to report conditions such as
// not-found explicitly, instead of raising and catching exceptions as
// a control flow, and the restful adapter layer maps them to response
// status codes at the boundary.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

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

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// IsNotFound reports if err or some error in its chain is an *Error
// with the not-found status code.
func IsNotFound(err error) bool {
	var ce *Error
	return errors.As(err, &ce) &&
		ce.HTTPStatusCode == http.StatusNotFound
}
