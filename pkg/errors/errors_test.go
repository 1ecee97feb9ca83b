package errors

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
)

func TestOperatorError(t *testing.T) {
	t.Run("message includes received params and location", func(t *testing.T) {
		err := NewOperatorError("_divide", "_divide by zero not allowed").
			AddReceived([]any{1, 0}).
			AddLocation("locationId")

		assert.Equal(t, `Operator Error: _divide by zero not allowed. Received: {"_divide":[1,0]} at locationId.`, err.Error())
	})

	t.Run("formatted message", func(t *testing.T) {
		err := NewOperatorErrorf("_regex", "invalid pattern %q", "(").AddLocation("a.b")

		assert.Equal(t, `Operator Error: invalid pattern "(". Received: {"_regex":null} at a.b.`, err.Error())
		assert.True(t, IsOperatorError(err))
	})

	t.Run("to http error", func(t *testing.T) {
		err := NewOperatorError("_sum", "bad").AddLocation("x")

		httpErr := err.ToHTTPError()
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(httpErr))
		assert.Equal(t, "x", httpErr.Meta["location"])
	})
}

func TestOperatorNotFoundError(t *testing.T) {
	err := NewOperatorNotFoundError("_nope").AddLocation("root.properties")

	assert.Equal(t, `Operator Error: Unsupported operator "_nope" at root.properties.`, err.Error())
}

func TestActionNotFoundError(t *testing.T) {
	t.Run("without path", func(t *testing.T) {
		err := NewActionNotFoundError("Explode")
		assert.Equal(t, `invalid action type "Explode"`, err.Error())
	})

	t.Run("with path", func(t *testing.T) {
		err := NewActionNotFoundError("Explode").AddBlock("button").AddActionID("a1")
		assert.Equal(t, `block 'button' -> action 'a1': invalid action type "Explode"`, err.Error())
	})
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationErrorf("duplicate blockId %q", "text1").AddPath("pages.one")

	assert.Equal(t, `pages.one: duplicate blockId "text1"`, err.Error())
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, http.StatusUnprocessableEntity, httperror.GetStatusCode(ToHTTPError(err)))
}

func TestToHTTPError(t *testing.T) {
	assert.Nil(t, ToHTTPError(nil))

	plain := assert.AnError
	assert.Equal(t, plain, ToHTTPError(plain))
}
