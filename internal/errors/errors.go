package errors

import "fmt"

// Code classifies roster editing failures.
type Code string

const (
	CodeInvalid     Code = "INVALID_REQUEST"
	CodeNameExists  Code = "NAME_EXISTS"
	CodeNotFound    Code = "NOT_FOUND"
	CodeBadFile     Code = "BAD_FILE"
	CodeUnavailable Code = "UNAVAILABLE"
)

// Error is a structured failure surfaced to the immediate caller. It never
// unwinds past a mutation boundary: a transform either fully succeeds or
// returns one of these with the prior snapshot untouched.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalid(format string, a ...any) *Error {
	return &Error{Code: CodeInvalid, Message: fmt.Sprintf(format, a...)}
}

func NewNameExists(name string) *Error {
	return &Error{Code: CodeNameExists, Message: fmt.Sprintf("column %q already exists", name)}
}

func NewNotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", what)}
}

func NewBadFile(format string, a ...any) *Error {
	return &Error{Code: CodeBadFile, Message: fmt.Sprintf(format, a...)}
}

func NewUnavailable(format string, a ...any) *Error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, a...)}
}
