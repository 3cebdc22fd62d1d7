package expr

import (
	"errors"
	"fmt"
)

// Error is a machine-readable template error class.
type Error struct {
	Code    string
	Message string
	// Fragment is the template text that failed to parse, if any.
	Fragment string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// WithMessage returns a new Error with the same Code but a specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg}
}

// WithMessagef returns a new Error with a formatted message.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// WithFragment returns a copy of e carrying the offending template text.
func (e *Error) WithFragment(fragment string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Fragment: fragment}
}

var (
	ErrParse             = &Error{Code: "E_PARSE"}
	ErrEditorNotFound    = &Error{Code: "E_EDITOR_NOT_FOUND", Message: "editor file path is not detected"}
	ErrImageNotFound     = &Error{Code: "E_IMAGE_NOT_FOUND", Message: "invalid image variable"}
	ErrWorkspaceNotFound = &Error{Code: "E_WORKSPACE_NOT_FOUND", Message: "workspace path is not detected"}
)

// IsResolution reports whether err means a context attribute required by a
// template was missing at evaluation time.
func IsResolution(err error) bool {
	return errors.Is(err, ErrEditorNotFound) ||
		errors.Is(err, ErrImageNotFound) ||
		errors.Is(err, ErrWorkspaceNotFound)
}

func parseErrorf(fragment, format string, args ...any) *Error {
	return ErrParse.WithMessagef(format, args...).WithFragment(fragment)
}
