package codegen

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrUnsupportedMessage(t *testing.T) {
	err := errUnsupported("List(AnyPointer)", "Widget.items")
	assert.EqualError(t, err, "unsupported construct List(AnyPointer) in Widget.items")
}

func TestErrUnsupportedIsDistinguishable(t *testing.T) {
	err := errUnsupported("List(Interface)", "Widget.caps")
	var target *unsupportedError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "List(Interface)", target.construct)
	assert.Equal(t, "Widget.caps", target.where)
}

func TestErrMalformedWithoutCause(t *testing.T) {
	err := errMalformed("type discriminant", nil)
	assert.EqualError(t, err, "malformed schema input in type discriminant")
}

func TestErrMalformedWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := errMalformed("value discriminant", cause)
	assert.Contains(t, err.Error(), "malformed schema input in value discriminant")
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, errors.Is(err, cause))
}
