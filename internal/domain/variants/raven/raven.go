// Package raven is a sample setting that extends the base character and
// skill with guilt. It exists to exercise the variant contract: a custom
// skill kind, an extra character field and a rule override that survive
// storage.
//
// Only the guilt fields themselves come from the setting. The experience
// rule is an illustration: a success rolled at or above the skill's guilt
// earns no experience check. It is not a published BRP rule.
package raven

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

const (
	Kind      character.Kind = "raven"
	SkillKind                = "raven"

	DefaultSkillGuilt     = 100
	DefaultCharacterGuilt = 10
)

// Skill carries the guilt a character has tied to a skill
type Skill struct {
	*skill.Basic
	Guilt int `json:"guilt"`
}

// SkillFactory builds raven skills
func SkillFactory(def skill.Definition) (skill.Skill, error) {
	return &Skill{Basic: skill.FromDefinition(def), Guilt: DefaultSkillGuilt}, nil
}

// Roll resolves the skill. A success rolled at or above the skill's guilt
// earns no experience.
func (s *Skill) Roll(roller dice.Roller, opts *skill.RollOptions) (*skill.Result, error) {
	previous := s.Experience
	result, err := skill.Resolve(roller, s, opts)
	if err != nil {
		return nil, err
	}
	if result.Success && result.Roll >= s.Guilt {
		s.Experience = previous
	}
	return result, nil
}

// Character is a raven character
type Character struct {
	*character.Character
	Guilt int `json:"guilt"`
}

// New builds a raven character with raven skills
func New(cfg character.Config, opts ...character.Option) (*Character, error) {
	cfg.Kind = Kind
	opts = append([]character.Option{character.WithSkillFactory(SkillFactory)}, opts...)
	base, err := character.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Character{Character: base, Guilt: DefaultCharacterGuilt}, nil
}

// Wrap turns an already built character into a raven character. Its skills
// are rebuilt as raven skills.
func Wrap(base *character.Character, guilt int) (*Character, error) {
	if base == nil {
		return nil, brperr.InvalidArgument("character is required")
	}
	if err := base.SetSkillFactory(SkillFactory); err != nil {
		return nil, err
	}
	base.Kind = Kind
	return &Character{Character: base, Guilt: guilt}, nil
}

// AddGuilt increases guilt. Guilt never drops through this call.
func (c *Character) AddGuilt(amount int) {
	if amount > 0 {
		c.Guilt += amount
	}
}

func (c *Character) ResetGuilt() {
	c.Guilt = 0
}

// SkillGuilt returns the guilt tied to a skill
func (c *Character) SkillGuilt(name string) (int, error) {
	s, err := c.Skill(name)
	if err != nil {
		return 0, err
	}
	rs, ok := s.(*Skill)
	if !ok {
		return 0, brperr.Contractf("skill %s is not a raven skill", name).WithMeta("skill", name)
	}
	return rs.Guilt, nil
}
