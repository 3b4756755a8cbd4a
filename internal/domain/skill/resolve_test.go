package skill_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/brp-sheet/internal/dice"
	mockdice "github.com/KirkDiggler/brp-sheet/internal/dice/mock"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
)

func roller(rolls ...int) *mockdice.ManualMockRoller {
	r := mockdice.NewManualMockRoller()
	r.SetRolls(rolls)
	return r
}

func TestResolve_Grades(t *testing.T) {
	tests := []struct {
		name     string
		chance   int
		roll     int
		opts     *skill.RollOptions
		expected skill.Rank
		total    int
	}{
		{name: "special not critical", chance: 50, roll: 30, expected: skill.RankSuccess, total: 30},
		{name: "special", chance: 50, roll: 10, expected: skill.RankSpecial, total: 10},
		{name: "critical", chance: 50, roll: 3, expected: skill.RankCritical, total: 3},
		{name: "failure", chance: 50, roll: 51, expected: skill.RankFailure, total: 51},
		{name: "fumble at 50", chance: 50, roll: 98, expected: skill.RankFumble, total: 98},
		{name: "97 is a failure at 50", chance: 50, roll: 97, expected: skill.RankFailure, total: 97},
		{
			name:     "category bonus pushes total up",
			chance:   50,
			roll:     45,
			opts:     &skill.RollOptions{CategoryBonus: shared.CategoryModifiers{shared.CategoryPerception: 10}},
			expected: skill.RankFailure,
			total:    55,
		},
		{
			name:     "armor penalty pulls total down",
			chance:   50,
			roll:     55,
			opts:     &skill.RollOptions{ArmorPenalty: shared.CategoryModifiers{shared.CategoryPerception: 10}},
			expected: skill.RankSuccess,
			total:    45,
		},
		{
			name:     "positive fatigue is ignored",
			chance:   50,
			roll:     30,
			opts:     &skill.RollOptions{Fatigue: 20},
			expected: skill.RankSuccess,
			total:    30,
		},
		{
			name:     "negative fatigue applies",
			chance:   50,
			roll:     30,
			opts:     &skill.RollOptions{Fatigue: -25},
			expected: skill.RankSpecial,
			total:    5,
		},
		{
			name:     "easy roll doubles the chance",
			chance:   40,
			roll:     75,
			opts:     &skill.RollOptions{Difficulty: 2},
			expected: skill.RankSuccess,
			total:    75,
		},
		{
			name:     "hard roll halves the chance",
			chance:   40,
			roll:     25,
			opts:     &skill.RollOptions{Difficulty: 0.5},
			expected: skill.RankFailure,
			total:    25,
		},
		{
			name:     "modifier is added",
			chance:   40,
			roll:     35,
			opts:     &skill.RollOptions{Modifier: 10},
			expected: skill.RankFailure,
			total:    45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := skill.NewBasic("Spot", shared.CategoryPerception, tt.chance)

			result, err := s.Roll(roller(tt.roll), tt.opts)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Rank())
			assert.Equal(t, tt.roll, result.Roll)
			assert.Equal(t, tt.total, result.Total)
		})
	}
}

func TestResolve_SuccessMarksExperience(t *testing.T) {
	s := skill.NewBasic("Climb", shared.CategoryPhysical, 40)

	_, err := s.Roll(roller(80), nil)
	require.NoError(t, err)
	assert.Equal(t, skill.ExperienceIdle, s.Experience)

	_, err = s.Roll(roller(20), nil)
	require.NoError(t, err)
	assert.Equal(t, skill.ExperiencePending, s.Experience)
}

func TestResolve_NonImprovableStaysIdle(t *testing.T) {
	s := skill.FromDefinition(skill.Definition{Name: "Luck", Chance: 50})

	result, err := s.Roll(roller(10), nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, skill.ExperienceIdle, s.Experience)
}

func TestResolve_LuckyRule(t *testing.T) {
	s := skill.NewBasic("Martial Arts", shared.CategoryCombat, 0)

	result, err := s.Roll(roller(1), &skill.RollOptions{Lucky: true})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Lucky)
	assert.False(t, result.Failure)
	assert.False(t, result.Special)

	result, err = s.Roll(roller(1), nil)
	require.NoError(t, err)
	assert.Equal(t, skill.RankFailure, result.Rank())
}

func TestResolve_Advantage(t *testing.T) {
	s := skill.NewBasic("Hide", shared.CategoryPhysical, 30)

	result, err := s.Roll(roller(80, 20), &skill.RollOptions{Advantage: 1})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Roll)
	assert.True(t, result.Success)

	result, err = s.Roll(roller(80, 20), &skill.RollOptions{Advantage: -1})
	require.NoError(t, err)
	assert.Equal(t, 80, result.Roll)
	assert.True(t, result.Failure)
}

func TestResolve_RollerError(t *testing.T) {
	s := skill.NewBasic("Hide", shared.CategoryPhysical, 30)

	_, err := s.Roll(roller(), nil)
	assert.Error(t, err)

	_, err = skill.Resolve(nil, s, nil)
	assert.Error(t, err)
}

func TestFumbleThreshold(t *testing.T) {
	assert.Equal(t, 95, skill.FumbleThreshold(0))
	assert.Equal(t, 98, skill.FumbleThreshold(50))
	assert.Equal(t, 100, skill.FumbleThreshold(100))
	assert.Greater(t, skill.FumbleThreshold(120), 100)
}

func TestFumbleBandNarrowsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		low := rapid.IntRange(0, 99).Draw(t, "low")
		high := rapid.IntRange(low+1, 100).Draw(t, "high")

		if skill.FumbleThreshold(high) < skill.FumbleThreshold(low) {
			t.Fatalf("threshold fell from %d to %d as chance rose %d -> %d",
				skill.FumbleThreshold(low), skill.FumbleThreshold(high), low, high)
		}
	})
}

func TestResolveGradesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chance := rapid.IntRange(0, 100).Draw(t, "chance")
		difficulty := rapid.SampledFrom([]float64{0.5, 1, 2}).Draw(t, "difficulty")
		roll := rapid.IntRange(1, dice.PercentileSides).Draw(t, "roll")
		modifier := rapid.IntRange(-30, 30).Draw(t, "modifier")

		s := skill.NewBasic("Listen", shared.CategoryPerception, chance)
		result, err := s.Roll(roller(roll), &skill.RollOptions{Difficulty: difficulty, Modifier: modifier})
		if err != nil {
			t.Fatal(err)
		}

		target := difficulty * float64(chance)
		total := float64(result.Total)
		if result.Success && total > target {
			t.Fatalf("success with total %v above %v", total, target)
		}
		if result.Special && (!result.Success || total > math.Ceil(target/5)) {
			t.Fatalf("special outside its band: %+v", result)
		}
		if result.Critical && (!result.Special || total > math.Ceil(target/20)) {
			t.Fatalf("critical outside its band: %+v", result)
		}
		if result.Success == result.Failure {
			t.Fatalf("success and failure must be exclusive: %+v", result)
		}
		if result.Fumble && !result.Failure {
			t.Fatalf("fumble without failure: %+v", result)
		}
	})
}

func TestLuckyRuleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		modifier := rapid.IntRange(-100, 100).Draw(t, "modifier")
		difficulty := rapid.SampledFrom([]float64{0.5, 1, 2}).Draw(t, "difficulty")

		s := skill.NewBasic("Gaming", shared.CategoryMental, 0)
		result, err := s.Roll(roller(1), &skill.RollOptions{
			Lucky:      true,
			Modifier:   modifier,
			Difficulty: difficulty,
		})
		if err != nil {
			t.Fatal(err)
		}
		if !result.Success || result.Fumble {
			t.Fatalf("lucky roll did not succeed: %+v", result)
		}
	})
}
