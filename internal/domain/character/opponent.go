package character

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
)

// Opponent is the other side of an opposed roll: either another character's
// skill or a flat chance
type Opponent struct {
	Skill         skill.Skill
	Chance        int
	CategoryBonus shared.CategoryModifiers
	ArmorPenalty  shared.CategoryModifiers
}

// AgainstChance opposes a flat chance
func AgainstChance(chance int) Opponent {
	return Opponent{Chance: chance}
}

// AgainstSkill opposes a skill owned by someone else
func AgainstSkill(s skill.Skill) Opponent {
	return Opponent{Skill: s}
}

// AgainstCharacterSkill opposes a skill of another character, carrying that
// character's bonuses and armor penalties
func AgainstCharacterSkill(other *Character, name string) (Opponent, error) {
	s, err := other.Skill(name)
	if err != nil {
		return Opponent{}, err
	}
	return Opponent{
		Skill:         s,
		CategoryBonus: other.CategoryBonuses,
		ArmorPenalty:  other.Equipment.ArmorPenalty,
	}, nil
}

func (o Opponent) chance() int {
	if o.Skill != nil && o.Skill.Base() != nil {
		return o.Skill.Base().Chance
	}
	return o.Chance
}

func (o Opponent) roll(roller dice.Roller) (*skill.Result, error) {
	s := o.Skill
	if s == nil {
		s = skill.FromDefinition(skill.Definition{Chance: o.Chance})
	}
	return s.Roll(roller, &skill.RollOptions{
		CategoryBonus: o.CategoryBonus,
		ArmorPenalty:  o.ArmorPenalty,
	})
}
