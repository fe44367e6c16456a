package admin

import (
	"crypto/subtle"
	"errors"
)

// ErrAccessDenied is returned for a wrong access code.
var ErrAccessDenied = errors.New("access code does not match")

// Authenticator decides whether an access code opens the editor.
type Authenticator interface {
	Verify(code string) bool
}

// StaticCode accepts exactly one shared code.
type StaticCode string

// Verify compares code with the configured value.
func (s StaticCode) Verify(code string) bool {
	return subtle.ConstantTimeCompare([]byte(s), []byte(code)) == 1
}
