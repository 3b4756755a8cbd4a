package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

func TestSanityRoll(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())

	roller.SetRolls([]int{60, 4})
	result, err := c.SanityRoll("0", "1d6")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 4, result.Loss)
	assert.Equal(t, 46, c.Sanity)
	assert.Equal(t, 4, c.RecentSanityLoss)

	roller.SetRolls([]int{10})
	result, err = c.SanityRoll("1", "1d6")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 45, c.Sanity)
	assert.Equal(t, 5, c.RecentSanityLoss)
	assert.False(t, c.TemporarilyInsane)
}

func TestSanityRoll_Insanity(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())

	roller.SetRolls([]int{90})
	_, err := c.SanityRoll("0", "30")
	require.NoError(t, err)
	assert.Equal(t, 20, c.Sanity)
	assert.True(t, c.TemporarilyInsane)
	assert.False(t, c.PermanentlyInsane)

	roller.SetRolls([]int{90})
	_, err = c.SanityRoll("0", "25")
	require.NoError(t, err)
	assert.Zero(t, c.Sanity)
	assert.True(t, c.PermanentlyInsane)
}

func TestSanityRoll_BadLoss(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{90})

	_, err := c.SanityRoll("0", "lots")

	assert.True(t, brperr.IsParse(err))
	assert.Equal(t, 50, c.Sanity)
}

func TestSanityRoll_NegativeLoss(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{90})

	_, err := c.SanityRoll("0", "-5")

	require.Error(t, err)
	assert.True(t, brperr.IsValidation(err))
	assert.Equal(t, 50, c.Sanity)
	assert.Zero(t, c.RecentSanityLoss)
}

func TestRecoverSanity_Negative(t *testing.T) {
	c, _ := newCharacter(t, defaultConfig())

	_, err := c.RecoverSanity("-10")

	assert.True(t, brperr.IsValidation(err))
	assert.Equal(t, 50, c.Sanity)
}

func TestRecoverSanity(t *testing.T) {
	c, _ := newCharacter(t, defaultConfig())
	c.Skills[rulebook.SkillBlasphemousLore].Base().SetChance(20)
	c.Sanity = 75
	c.TemporarilyInsane = true
	c.PermanentlyInsane = true

	sanity, err := c.RecoverSanity("10")

	require.NoError(t, err)
	assert.Equal(t, 80, sanity)
	assert.Equal(t, 80, c.SanityCeiling())
	assert.False(t, c.TemporarilyInsane)
	assert.True(t, c.PermanentlyInsane)
}

func TestRecoverSanity_Rolled(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{2, 3})

	sanity, err := c.RecoverSanity("2D6")

	require.NoError(t, err)
	assert.Equal(t, 55, sanity)
}

func TestResetRecentSanityLossAndFatigue(t *testing.T) {
	c, _ := newCharacter(t, defaultConfig())
	c.RecentSanityLoss = 12

	c.ResetRecentSanityLoss()
	c.ModifyFatigue(-25)

	assert.Zero(t, c.RecentSanityLoss)
	assert.Equal(t, -5, c.Fatigue)
}

func TestSanityBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		lore := rapid.IntRange(0, 100).Draw(t, "lore")
		ops := rapid.SliceOfN(rapid.IntRange(-40, 40), 1, 20).Draw(t, "ops")

		roller := dice.NewRandomRollerWithSource(dice.NewSeededSource(seed))
		c, err := character.New(defaultConfig(), character.WithRoller(roller))
		if err != nil {
			t.Fatal(err)
		}
		c.Skills[rulebook.SkillBlasphemousLore].Base().SetChance(lore)

		for _, op := range ops {
			if op < 0 {
				if _, err := c.SanityRoll("1d4", "1d10"); err != nil {
					t.Fatal(err)
				}
			} else {
				if _, err := c.RecoverSanity("1d10"); err != nil {
					t.Fatal(err)
				}
				if c.Sanity > max(c.SanityCeiling(), 0) {
					t.Fatalf("sanity %d above ceiling %d", c.Sanity, c.SanityCeiling())
				}
			}
			if c.Sanity < 0 {
				t.Fatalf("sanity fell below zero: %d", c.Sanity)
			}
			if c.RecentSanityLoss < 0 {
				t.Fatalf("recent sanity loss fell below zero: %d", c.RecentSanityLoss)
			}
		}
	})
}
