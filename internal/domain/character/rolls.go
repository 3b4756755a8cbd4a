package character

import (
	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// luckyChance is the flat chance rolled when two opposed skills are too close
// to call under the subtraction method
const luckyChance = 5

// SkillRollOptions are the caller supplied modifiers for a skill roll. The
// character adds its own bonuses, armor penalties and fatigue.
type SkillRollOptions struct {
	Difficulty float64
	Modifier   int
	Advantage  int
	Lucky      bool
}

func (c *Character) rollOptions(opts *SkillRollOptions) *skill.RollOptions {
	if opts == nil {
		opts = &SkillRollOptions{}
	}
	return &skill.RollOptions{
		CategoryBonus: c.CategoryBonuses,
		ArmorPenalty:  c.Equipment.ArmorPenalty,
		Fatigue:       c.Fatigue,
		Difficulty:    opts.Difficulty,
		Modifier:      opts.Modifier,
		Advantage:     opts.Advantage,
		Lucky:         opts.Lucky,
	}
}

// MakeSkillRoll rolls the named skill with the character's modifiers
func (c *Character) MakeSkillRoll(name string, opts *SkillRollOptions) (*skill.Result, error) {
	s, err := c.Skill(name)
	if err != nil {
		return nil, err
	}
	return s.Roll(c.getDiceRoller(), c.rollOptions(opts))
}

// OpposedResult is the outcome of a highest success contest
type OpposedResult struct {
	Won    bool
	Mine   *skill.Result
	Theirs *skill.Result
}

// OpposedHighestSuccess has both sides roll and compares the grade of their
// results. Ties go to tiebreak when given, otherwise to the side with the
// equal or higher chance.
func (c *Character) OpposedHighestSuccess(mySkill string, opponent Opponent, tiebreak *bool) (*OpposedResult, error) {
	s, err := c.Skill(mySkill)
	if err != nil {
		return nil, err
	}
	mine, err := s.Roll(c.getDiceRoller(), c.rollOptions(nil))
	if err != nil {
		return nil, err
	}
	theirs, err := opponent.roll(c.getDiceRoller())
	if err != nil {
		return nil, err
	}

	result := &OpposedResult{Mine: mine, Theirs: theirs}
	switch {
	case mine.Rank() > theirs.Rank():
		result.Won = true
	case mine.Rank() < theirs.Rank():
		result.Won = false
	case tiebreak != nil:
		result.Won = *tiebreak
	default:
		result.Won = s.Base().Chance >= opponent.chance()
	}
	return result, nil
}

// OpposedSubtraction resolves a contest for the active side. The opponent
// rolls first and their grade sets up the active roll.
func (c *Character) OpposedSubtraction(mySkill string, opponent Opponent) (*skill.Result, error) {
	s, err := c.Skill(mySkill)
	if err != nil {
		return nil, err
	}
	theirs, err := opponent.roll(c.getDiceRoller())
	if err != nil {
		return nil, err
	}

	rank := theirs.Rank()
	switch {
	case rank > skill.RankFailure && abs(s.Base().Chance-opponent.chance()) <= luckyChance:
		lucky := skill.FromDefinition(skill.Definition{Chance: luckyChance})
		return lucky.Roll(c.getDiceRoller(), &skill.RollOptions{Lucky: true})
	case rank > skill.RankFailure:
		return s.Roll(c.getDiceRoller(), c.rollOptions(&SkillRollOptions{Modifier: -opponent.chance()}))
	case rank == skill.RankFumble:
		return s.Roll(c.getDiceRoller(), c.rollOptions(&SkillRollOptions{Difficulty: 2}))
	default:
		return s.Roll(c.getDiceRoller(), c.rollOptions(nil))
	}
}

// ResistanceTableChance is the chance to win on the resistance table
func ResistanceTableChance(mine, theirs int) int {
	return 50 + 5*(shared.FloorDiv(mine, 5)-shared.FloorDiv(theirs, 5))
}

// ResistanceChance is the linear resistance chance
func ResistanceChance(mine, theirs int) int {
	return 50 + (mine - theirs)
}

// OpposedResistanceTable rolls once against the resistance table chance
func (c *Character) OpposedResistanceTable(mySkill string, opponent Opponent) (bool, error) {
	s, err := c.Skill(mySkill)
	if err != nil {
		return false, err
	}
	return c.rollUnder(ResistanceTableChance(s.Base().Chance, opponent.chance()))
}

// OpposedResistance rolls once against the linear resistance chance
func (c *Character) OpposedResistance(mySkill string, opponent Opponent) (bool, error) {
	s, err := c.Skill(mySkill)
	if err != nil {
		return false, err
	}
	return c.rollUnder(ResistanceChance(s.Base().Chance, opponent.chance()))
}

func (c *Character) rollUnder(chance int) (bool, error) {
	roll, err := c.getDiceRoller().RollPercentile(0)
	if err != nil {
		return false, err
	}
	return roll.Total <= chance, nil
}

// OpposedPOWCheck pits Luck against the opponent on the resistance table. A
// win makes the character eligible for POW improvement.
func (c *Character) OpposedPOWCheck(opponent Opponent) (bool, error) {
	if _, ok := c.Skills[rulebook.SkillLuck]; !ok {
		return false, brperr.NotFoundf("character has no %s skill", rulebook.SkillLuck).
			WithMeta("skill", rulebook.SkillLuck)
	}
	won, err := c.OpposedResistanceTable(rulebook.SkillLuck, opponent)
	if err != nil {
		return false, err
	}
	if won {
		c.POWImprovement = ImprovementPending
	}
	return won, nil
}

// ImprovePOW spends a pending POW improvement. It returns the POW gained,
// which may be zero. Derived attributes are left alone.
func (c *Character) ImprovePOW() (int, error) {
	if c.POWImprovement != ImprovementPending {
		return 0, nil
	}
	defer func() { c.POWImprovement = ImprovementIdle }()

	target := 5 * (c.MaxSpeciesPOW + c.MinSpeciesPOW - c.Scores.POW)
	roll, err := c.getDiceRoller().RollPercentile(0)
	if err != nil {
		return 0, err
	}
	if roll.Total >= target {
		return 0, nil
	}

	gain, err := c.getDiceRoller().Roll(1, 3, -1)
	if err != nil {
		return 0, err
	}
	c.Scores.POW += gain.Total
	return gain.Total, nil
}

// CharacteristicRoll succeeds when the roll less modifier is within
// multiplier times the characteristic
func (c *Character) CharacteristicRoll(name string, multiplier, advantage, modifier int) (bool, error) {
	characteristic, err := shared.ParseCharacteristic(name)
	if err != nil {
		return false, err
	}
	value, err := c.Scores.Get(characteristic)
	if err != nil {
		return false, err
	}

	roll, err := c.getDiceRoller().RollPercentile(advantage)
	if err != nil {
		return false, err
	}
	return roll.Total-modifier <= multiplier*value, nil
}

// MakeExperienceRolls spends every pending experience check in name order
func (c *Character) MakeExperienceRolls() ([]*skill.Improvement, error) {
	die := c.Rules.ImprovementDie
	if die == 0 {
		die = skill.DefaultImprovementDie
	}

	improvements := make([]*skill.Improvement, 0)
	for _, name := range c.SkillNames() {
		improvement, err := c.Skills[name].ExperienceRoll(c.getDiceRoller(), c.Scores.INT, die)
		if err != nil {
			return improvements, brperr.Wrapf(err, "experience roll for %s", name)
		}
		if improvement.Checked {
			improvements = append(improvements, improvement)
		}
	}
	return improvements, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
