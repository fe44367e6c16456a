package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCode(t *testing.T) {
	code := StaticCode("1217")
	assert.True(t, code.Verify("1217"))
	assert.False(t, code.Verify("1218"))
	assert.False(t, code.Verify(""))
	assert.False(t, code.Verify("12171"))
}

func TestPanel_WrongCodeClearsInput(t *testing.T) {
	p := NewPanel(StaticCode("1217"), seededStore(t), clock)

	p.SetInput("0000")
	assert.ErrorIs(t, p.Submit(), ErrAccessDenied)
	assert.False(t, p.Authenticated())
	assert.Empty(t, p.Input())

	_, err := p.Draft()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestPanel_CorrectCodeOpensDraft(t *testing.T) {
	s := seededStore(t)
	p := NewPanel(StaticCode("1217"), s, clock)

	p.SetInput("1217")
	require.NoError(t, p.Submit())
	assert.True(t, p.Authenticated())

	e, err := p.Draft()
	require.NoError(t, err)
	assert.Equal(t, s.All(), e.Records())

	// Already open: a second submit keeps the same draft.
	e.Add()
	require.NoError(t, p.Submit())
	again, _ := p.Draft()
	assert.Same(t, e, again)
}

type allowAll struct{}

func (allowAll) Verify(string) bool { return true }

func TestPanel_AuthenticatorIsReplaceable(t *testing.T) {
	p := NewPanel(allowAll{}, seededStore(t), clock)
	p.SetInput("anything")
	assert.NoError(t, p.Submit())
}
