package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

func TestParseCharacteristic(t *testing.T) {
	c, err := shared.ParseCharacteristic(" pow ")
	require.NoError(t, err)
	assert.Equal(t, shared.CharacteristicPower, c)

	_, err = shared.ParseCharacteristic("WIS")
	assert.True(t, brperr.IsValidation(err))
	assert.Equal(t, "WIS", brperr.GetMeta(err)["characteristic"])
}

func TestScores_Get(t *testing.T) {
	scores := shared.Scores{STR: 1, CON: 2, POW: 3, DEX: 4, CHA: 5, INT: 6, SIZ: 7, EDU: 8, MOV: 9}

	for i, c := range shared.Characteristics {
		value, err := scores.Get(c)
		require.NoError(t, err)
		assert.Equal(t, i+1, value, c)
	}

	_, err := scores.Get("MOV")
	assert.True(t, brperr.IsValidation(err))
}
