package rulebook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

func TestCategoryBonus(t *testing.T) {
	assert.Equal(t, 0, rulebook.CategoryBonus(10, 10, 10, 10))
	// 5 + 2 + (-2) + (-3)
	assert.Equal(t, 2, rulebook.CategoryBonus(15, 14, 7, 13))
	// odd negative offsets floor toward negative infinity
	assert.Equal(t, -2, rulebook.CategoryBonus(10, 9, 9, 10))
}

func TestCategoryBonuses(t *testing.T) {
	scores := shared.DefaultScores()
	scores.DEX = 14
	scores.SIZ = 16
	scores.INT = 13

	bonuses := rulebook.CategoryBonuses(scores)

	assert.Equal(t, 5, bonuses[shared.CategoryCombat])
	assert.Equal(t, 3, bonuses[shared.CategoryCommunication])
	assert.Equal(t, 3, bonuses[shared.CategoryMental])
	assert.Equal(t, -2, bonuses[shared.CategoryPhysical])
	assert.Len(t, bonuses, len(shared.Categories))
}

func TestSelectCategoryBonuses(t *testing.T) {
	scores := shared.DefaultScores()
	scores.CHA = 15

	assert.Equal(t, rulebook.CategoryBonuses(scores), rulebook.SelectCategoryBonuses(scores, true, true))
	simple := rulebook.SelectCategoryBonuses(scores, false, true)
	assert.Equal(t, 8, simple[shared.CategoryCommunication])
	assert.Equal(t, shared.ZeroCategoryModifiers(), rulebook.SelectCategoryBonuses(scores, false, false))
}

func TestDamageModifier(t *testing.T) {
	tests := []struct {
		sum      int
		expected string
	}{
		{12, "-1d6"},
		{13, "-1d4"},
		{16, "-1d4"},
		{20, "0"},
		{25, "1d4"},
		{40, "1d6"},
		{41, "2d6"},
		{56, "2d6"},
		{57, "3d6"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, rulebook.DamageModifier(tt.sum/2, tt.sum-tt.sum/2), tt.sum)
	}
}

func TestDerive(t *testing.T) {
	scores := shared.DefaultScores()
	scores.CON = 13
	scores.POW = 12

	d := rulebook.Derive(scores, false)

	assert.Equal(t, 12, d.MaxHitPoints)
	assert.Equal(t, 6, d.MajorWoundLevel)
	assert.Equal(t, 4, d.MaxHitPointsByLocation[shared.LocationHead])
	assert.Equal(t, 3, d.MaxHitPointsByLocation[shared.LocationLeftArm])
	assert.Equal(t, 5, d.MaxHitPointsByLocation[shared.LocationChest])
	assert.Equal(t, 23, d.Fatigue)
	assert.Equal(t, 60, d.Sanity)
	assert.Equal(t, 30, d.TemporaryInsanityThreshold)
	assert.Equal(t, 12, d.PowerPoints)
	assert.Equal(t, "0", d.DamageModifier)

	tough := rulebook.Derive(scores, true)
	assert.Equal(t, 23, tough.MaxHitPoints)
	assert.Equal(t, 12, tough.MajorWoundLevel)

	scores.POW = 25
	assert.Equal(t, rulebook.MaxSanity, rulebook.Derive(scores, false).Sanity)
}

func TestStandardSkills(t *testing.T) {
	table, err := rulebook.StandardSkills()
	require.NoError(t, err)

	spot, ok := table.Lookup("Spot")
	require.True(t, ok)
	assert.Equal(t, shared.CategoryPerception, spot.Category)
	assert.Equal(t, 25, spot.Chance)
	assert.True(t, spot.Improvable)

	lore, ok := table.Lookup(rulebook.SkillBlasphemousLore)
	require.True(t, ok)
	assert.False(t, lore.Improvable)
	assert.Greater(t, table.Len(), 50)
}

func TestParseSkillTable_Errors(t *testing.T) {
	_, err := rulebook.ParseSkillTable([]byte("combat: [ {name: "))
	assert.True(t, brperr.IsParse(err))

	_, err = rulebook.ParseSkillTable([]byte("cooking:\n  - {name: Bake, chance: 5}\n"))
	assert.True(t, brperr.IsValidation(err))
}

func TestSkillDefaults(t *testing.T) {
	scores := shared.DefaultScores()
	scores.DEX = 15
	scores.INT = 12
	scores.EDU = 16
	scores.POW = 11

	table, err := rulebook.SkillDefaults(rulebook.SkillOptions{
		Scores:          scores,
		UseEducation:    true,
		Literate:        true,
		CanDrive:        true,
		PrimaryLanguage: "Common",
	})
	require.NoError(t, err)

	chance := func(name string) int {
		def, ok := table.Lookup(name)
		require.True(t, ok, name)
		return def.Chance
	}
	assert.Equal(t, 30, chance(rulebook.SkillDodge))
	assert.Equal(t, 20, chance(rulebook.SkillDrive))
	assert.Equal(t, 80, chance("Language (Common)"))
	assert.Equal(t, 80, chance(rulebook.SkillLiteracy))
	assert.Equal(t, 23, chance(rulebook.SkillGaming))
	assert.Equal(t, 7, chance(rulebook.SkillFly))
	assert.Equal(t, 0, chance(rulebook.SkillProjection))
	assert.Equal(t, 55, chance(rulebook.SkillLuck))

	luck, _ := table.Lookup(rulebook.SkillLuck)
	assert.False(t, luck.Improvable)
	assert.Equal(t, shared.CategoryNone, luck.Category)

	// the shared table is untouched
	base, err := rulebook.StandardSkills()
	require.NoError(t, err)
	dodge, _ := base.Lookup(rulebook.SkillDodge)
	assert.Equal(t, 0, dodge.Chance)
}

func TestSkillDefaults_WithoutEducation(t *testing.T) {
	scores := shared.DefaultScores()
	scores.EDU = 18

	table, err := rulebook.SkillDefaults(rulebook.SkillOptions{Scores: scores, CanFly: true})
	require.NoError(t, err)

	own, ok := table.Lookup("Language (own)")
	require.True(t, ok)
	assert.Equal(t, 50, own.Chance)
	fly, _ := table.Lookup(rulebook.SkillFly)
	assert.Equal(t, 40, fly.Chance)
	literacy, _ := table.Lookup(rulebook.SkillLiteracy)
	assert.Equal(t, 0, literacy.Chance)
}

func TestLocationHitPointsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hp := rapid.IntRange(1, 60).Draw(t, "hp")
		locations := rulebook.LocationHitPoints(hp)

		for _, loc := range shared.Locations {
			if locations[loc] < 1 {
				t.Fatalf("location %s has no hit points at hp %d", loc, hp)
			}
			if locations[loc] > hp {
				t.Fatalf("location %s exceeds total at hp %d", loc, hp)
			}
		}
	})
}
