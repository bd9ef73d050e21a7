package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// The error taxonomy of the REST API. Every *StatusError unwraps to exactly one of these.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("resource not found")
	ErrValidation     = errors.New("invalid request")
	ErrServer         = errors.New("server error")
	ErrHTTP           = errors.New("unexpected HTTP status")
	ErrConnection     = errors.New("connection failed")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // "message" of the server's error body, if any
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %s (%d)", e.Method, e.Path, e.Unwrap(), e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrAuthentication
	case e.StatusCode == http.StatusForbidden:
		return ErrPermission
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrServer
	}
	return ErrHTTP
}

func newStatusError(method, path string, statusCode int, body []byte) *StatusError {
	e := &StatusError{Method: method, Path: path, StatusCode: statusCode}
	if gjson.ValidBytes(body) {
		e.Message = gjson.GetBytes(body, "message").String()
	}
	return e
}
