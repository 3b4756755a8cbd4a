package errors_test

import (
	"fmt"
	"testing"

	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCodeAndMeta(t *testing.T) {
	base := brperr.NotFoundf("skill %q not found", "Spot").WithMeta("skill", "Spot")

	wrapped := brperr.Wrap(base, "make skill roll")

	assert.True(t, brperr.IsNotFound(wrapped))
	assert.Equal(t, "Spot", brperr.GetMeta(wrapped)["skill"])
	assert.Equal(t, `make skill roll: skill "Spot" not found`, wrapped.Error())
}

func TestWrap_ForeignError(t *testing.T) {
	wrapped := brperr.Wrap(fmt.Errorf("boom"), "load record")

	assert.Equal(t, brperr.CodeUnknown, brperr.GetCode(wrapped))
	assert.Nil(t, brperr.Wrap(nil, "nothing"))
}

func TestWrapWithCode(t *testing.T) {
	wrapped := brperr.WrapWithCode(fmt.Errorf("bad json"), brperr.CodeParse, "decode record")

	assert.True(t, brperr.IsParse(wrapped))
	assert.False(t, brperr.IsValidation(wrapped))
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", brperr.Contractf("unknown skill kind %q", "ghost"))

	assert.True(t, brperr.IsContract(err))
	assert.Equal(t, brperr.CodeContract, brperr.GetCode(err))
	assert.Nil(t, brperr.GetMeta(fmt.Errorf("plain")))
}

func TestWrap_MetaIsCopied(t *testing.T) {
	base := brperr.Validationf("sanity loss cannot be negative: %d", -3).WithMeta("loss", "-3")

	wrapped := brperr.Wrap(base, "SanityRoll failed").WithMeta("operation", "SanityRoll")

	assert.True(t, brperr.IsValidation(wrapped))
	assert.Equal(t, "-3", brperr.GetMeta(wrapped)["loss"])
	assert.NotContains(t, base.Meta, "operation")
}

func TestNotFound_KeepsMessageVerbatim(t *testing.T) {
	err := brperr.NotFound("100% missing")

	assert.Equal(t, "100% missing", err.Error())
	assert.True(t, brperr.IsNotFound(err))
	assert.False(t, brperr.IsAlreadyExists(err))
}
