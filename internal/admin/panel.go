package admin

import (
	"errors"
	"time"
)

// ErrNotAuthenticated is returned by Draft before a successful Submit.
var ErrNotAuthenticated = errors.New("admin panel is locked")

// Panel is one session's admin gate. The authenticated flag lives only as long
// as the session.
type Panel struct {
	auth  Authenticator
	store Committer
	now   func() time.Time

	input         string
	authenticated bool
	editor        *Editor
}

// NewPanel creates a locked panel.
func NewPanel(auth Authenticator, store Committer, now func() time.Time) *Panel {
	return &Panel{auth: auth, store: store, now: now}
}

// SetInput replaces the typed access code.
func (p *Panel) SetInput(code string) {
	p.input = code
}

// Input returns the typed access code.
func (p *Panel) Input() string {
	return p.input
}

// Authenticated reports whether the gate has been opened.
func (p *Panel) Authenticated() bool {
	return p.authenticated
}

// Submit checks the typed code. A wrong code clears the input and keeps the panel locked.
func (p *Panel) Submit() error {
	if p.authenticated {
		return nil
	}
	if !p.auth.Verify(p.input) {
		p.input = ""
		return ErrAccessDenied
	}
	p.authenticated = true
	p.input = ""
	p.editor = NewEditor(p.store, p.now)
	return nil
}

// Draft returns the open editor.
func (p *Panel) Draft() (*Editor, error) {
	if !p.authenticated {
		return nil, ErrNotAuthenticated
	}
	return p.editor, nil
}
