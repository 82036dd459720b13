package parser

import (
	"errors"
	"fmt"
)

// ErrOffensive is returned when the page is behind the offensive content
// warning gate.
var ErrOffensive = errors.New("gallery is behind the offensive content warning")

// ErrGone is returned for removed galleries.
var ErrGone = errors.New("gallery is pining for the fjords")

// ServerError is an explicit error message rendered by the server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ParseError is a structural mismatch on a load-bearing part of the page.
// It means the page could not be understood at all; no partial detail is
// ever returned alongside it.
type ParseError struct {
	What string
	err  error
}

func (e *ParseError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("parse %s: %v", e.What, e.err)
	}
	return fmt.Sprintf("parse %s", e.What)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func newParseError(what string, err error) *ParseError {
	return &ParseError{What: what, err: err}
}
