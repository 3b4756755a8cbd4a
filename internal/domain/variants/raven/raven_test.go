package raven_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockdice "github.com/KirkDiggler/brp-sheet/internal/dice/mock"
	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	"github.com/KirkDiggler/brp-sheet/internal/domain/variants/raven"
)

func config() character.Config {
	return character.Config{Scores: shared.DefaultScores(), Rules: character.DefaultRules()}
}

func TestNew(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	c, err := raven.New(config(), character.WithRoller(roller))
	require.NoError(t, err)

	assert.Equal(t, raven.Kind, c.Kind)
	assert.Equal(t, raven.DefaultCharacterGuilt, c.Guilt)
	guilt, err := c.SkillGuilt("Spot")
	require.NoError(t, err)
	assert.Equal(t, raven.DefaultSkillGuilt, guilt)

	// base operations run unchanged on the variant
	roller.SetRolls([]int{20})
	result, err := c.MakeSkillRoll("Spot", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, c.Skills["Spot"].Base().Pending())
}

func TestSkill_GuiltBlocksExperience(t *testing.T) {
	s, err := raven.SkillFactory(skill.Definition{Name: "Climb", Category: shared.CategoryPhysical, Chance: 40, Improvable: true})
	require.NoError(t, err)
	s.(*raven.Skill).Guilt = 15

	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{30, 10})

	result, err := s.Roll(roller, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, s.Base().Pending())

	result, err = s.Roll(roller, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, s.Base().Pending())
}

func TestGuilt(t *testing.T) {
	c, err := raven.New(config())
	require.NoError(t, err)

	c.AddGuilt(5)
	c.AddGuilt(-20)
	assert.Equal(t, 15, c.Guilt)

	c.ResetGuilt()
	assert.Zero(t, c.Guilt)
}

func TestWrap(t *testing.T) {
	base, err := character.New(config())
	require.NoError(t, err)
	base.Skills["Spot"].Base().Improve(10)

	c, err := raven.Wrap(base, 3)
	require.NoError(t, err)

	assert.Equal(t, raven.Kind, c.Kind)
	assert.Equal(t, 35, c.SkillChance("Spot"))
	_, isRaven := c.Skills["Spot"].(*raven.Skill)
	assert.True(t, isRaven)

	_, err = raven.Wrap(nil, 0)
	assert.Error(t, err)
}
