package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

func TestMakeSkillRoll(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{20})

	result, err := c.MakeSkillRoll("Spot", nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, c.Skills["Spot"].Base().Pending())
}

func TestMakeSkillRoll_CharacterModifiers(t *testing.T) {
	cfg := defaultConfig()
	cfg.Scores.INT = 14
	cfg.Equipment.ArmorPenalty = shared.CategoryModifiers{shared.CategoryPerception: 5}
	c, roller := newCharacter(t, cfg)
	c.Fatigue = -10

	// perception bonus is 4: 30 + 4 - 5 - 10 = 19
	roller.SetRolls([]int{30})
	result, err := c.MakeSkillRoll("Spot", &character.SkillRollOptions{})

	require.NoError(t, err)
	assert.Equal(t, 19, result.Total)
	assert.True(t, result.Success)
}

func TestMakeSkillRoll_Unknown(t *testing.T) {
	c, _ := newCharacter(t, defaultConfig())

	_, err := c.MakeSkillRoll("Basket Weaving", nil)

	assert.True(t, brperr.IsNotFound(err))
}

func TestOpposedHighestSuccess(t *testing.T) {
	yes := true
	tests := []struct {
		name     string
		rolls    []int
		opponent int
		tiebreak *bool
		won      bool
	}{
		{name: "better grade wins", rolls: []int{5, 40}, opponent: 50, won: true},
		{name: "worse grade loses", rolls: []int{60, 40}, opponent: 50, won: false},
		{name: "tie goes to higher chance", rolls: []int{20, 40}, opponent: 50, won: false},
		{name: "tie to equal chance", rolls: []int{20, 20}, opponent: 25, won: true},
		{name: "tiebreak decides", rolls: []int{20, 40}, opponent: 50, tiebreak: &yes, won: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, roller := newCharacter(t, defaultConfig())
			roller.SetRolls(tt.rolls)

			result, err := c.OpposedHighestSuccess("Spot", character.AgainstChance(tt.opponent), tt.tiebreak)

			require.NoError(t, err)
			assert.Equal(t, tt.won, result.Won)
			assert.Equal(t, tt.rolls[0], result.Mine.Roll)
			assert.Equal(t, tt.rolls[1], result.Theirs.Roll)
		})
	}
}

func TestOpposedHighestSuccess_AgainstCharacter(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	other, _ := newCharacter(t, defaultConfig())
	opponent, err := character.AgainstCharacterSkill(other, "Hide")
	require.NoError(t, err)
	roller.SetRolls([]int{20, 2})

	result, err := c.OpposedHighestSuccess("Spot", opponent, nil)

	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.True(t, other.Skills["Hide"].Base().Pending())
}

func TestOpposedSubtraction(t *testing.T) {
	tests := []struct {
		name     string
		opponent int
		rolls    []int
		expected skill.Rank
		total    int
	}{
		{name: "close contest uses a lucky five percent", opponent: 28, rolls: []int{10, 3}, expected: skill.RankSuccess, total: 3},
		{name: "opponent success subtracts their chance", opponent: 60, rolls: []int{10, 70}, expected: skill.RankSuccess, total: 10},
		{name: "opponent fumble doubles the chance", opponent: 20, rolls: []int{99, 45}, expected: skill.RankSuccess, total: 45},
		{name: "opponent failure is a plain roll", opponent: 20, rolls: []int{50, 45}, expected: skill.RankFailure, total: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, roller := newCharacter(t, defaultConfig())
			roller.SetRolls(tt.rolls)

			result, err := c.OpposedSubtraction("Spot", character.AgainstChance(tt.opponent))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Rank())
			assert.Equal(t, tt.total, result.Total)
			assert.Zero(t, roller.Remaining())
		})
	}
}

func TestResistance(t *testing.T) {
	assert.Equal(t, 35, character.ResistanceTableChance(25, 40))
	assert.Equal(t, 50, character.ResistanceTableChance(24, 20))
	assert.Equal(t, 35, character.ResistanceChance(25, 40))

	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{35, 36, 35, 36})

	won, err := c.OpposedResistanceTable("Spot", character.AgainstChance(40))
	require.NoError(t, err)
	assert.True(t, won)
	won, err = c.OpposedResistanceTable("Spot", character.AgainstChance(40))
	require.NoError(t, err)
	assert.False(t, won)

	won, err = c.OpposedResistance("Spot", character.AgainstChance(40))
	require.NoError(t, err)
	assert.True(t, won)
	won, err = c.OpposedResistance("Spot", character.AgainstChance(40))
	require.NoError(t, err)
	assert.False(t, won)
}

func TestOpposedPOWCheckAndImprovePOW(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())

	// Luck 50 against 50 needs 50 or less; POW 10 needs under 5*(18+3-10) = 55
	roller.SetRolls([]int{30, 54, 3})
	won, err := c.OpposedPOWCheck(character.AgainstChance(50))
	require.NoError(t, err)
	require.True(t, won)
	assert.Equal(t, character.ImprovementPending, c.POWImprovement)

	gain, err := c.ImprovePOW()
	require.NoError(t, err)
	assert.Equal(t, 2, gain)
	assert.Equal(t, 12, c.Scores.POW)
	assert.Equal(t, character.ImprovementIdle, c.POWImprovement)
	assert.Equal(t, 10, c.MaxPowerPoints)

	gain, err = c.ImprovePOW()
	require.NoError(t, err)
	assert.Zero(t, gain)
}

func TestImprovePOW_MissResetsTrigger(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	c.POWImprovement = character.ImprovementPending
	roller.SetRolls([]int{55})

	gain, err := c.ImprovePOW()

	require.NoError(t, err)
	assert.Zero(t, gain)
	assert.Equal(t, 10, c.Scores.POW)
	assert.Equal(t, character.ImprovementIdle, c.POWImprovement)
}

func TestOpposedPOWCheck_LostKeepsIdle(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{51})

	won, err := c.OpposedPOWCheck(character.AgainstChance(50))

	require.NoError(t, err)
	assert.False(t, won)
	assert.Equal(t, character.ImprovementIdle, c.POWImprovement)
}

func TestCharacteristicRoll(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	roller.SetRolls([]int{50, 60, 51})

	ok, err := c.CharacteristicRoll("str", 5, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CharacteristicRoll("DEX", 5, 0, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CharacteristicRoll("CON", 5, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.CharacteristicRoll("WIS", 5, 0, 0)
	assert.True(t, brperr.IsValidation(err))
	assert.Contains(t, err.Error(), "WIS")
}

func TestMakeExperienceRolls(t *testing.T) {
	c, roller := newCharacter(t, defaultConfig())
	c.Skills["Spot"].Base().Experience = skill.ExperiencePending
	c.Skills["Climb"].Base().Experience = skill.ExperiencePending
	c.Skills["Luck"].Base().Experience = skill.ExperiencePending

	// Climb first (40: 36+5 meets it, gain 2), then Spot (25: 10+5 misses)
	roller.SetRolls([]int{36, 2, 10})

	improvements, err := c.MakeExperienceRolls()

	require.NoError(t, err)
	require.Len(t, improvements, 2)
	assert.Equal(t, "Climb", improvements[0].Skill)
	assert.Equal(t, 2, improvements[0].Gain)
	assert.Equal(t, "Spot", improvements[1].Skill)
	assert.Equal(t, 42, c.SkillChance("Climb"))
	assert.Equal(t, 25, c.SkillChance("Spot"))
	assert.Equal(t, 50, c.SkillChance("Luck"))
	for _, name := range c.SkillNames() {
		assert.False(t, c.Skills[name].Base().Pending(), name)
	}
}
