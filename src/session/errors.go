package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFields marks a session that loaded with some fields replaced by defaults.
var ErrInvalidFields = errors.New("invalid or missing fields")

// SessionError reports a session that could not be read (Fatal) or that loaded with
// defaults substituted for the listed Fields.
type SessionError struct {
	Path   string
	Fatal  bool
	Fields []string
	Err    error
}

func (e *SessionError) Error() string {
	if e.Fatal {
		return fmt.Sprintf("session error: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("session warning: %s: %v: %s", e.Path, e.Err, strings.Join(e.Fields, ", "))
}

func (e *SessionError) Unwrap() error {
	return e.Err
}
