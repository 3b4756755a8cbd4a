// Package skill resolves percentile skill rolls into graded outcomes and
// tracks experience based improvement.
package skill

import (
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// ExperienceState records whether a skill has earned an experience roll
type ExperienceState string

const (
	ExperienceIdle    ExperienceState = "idle"
	ExperiencePending ExperienceState = "pending"
)

// Skill is the capability set the engine needs from a skill. Variants embed
// *Basic and may shadow Roll or ExperienceRoll.
type Skill interface {
	// Base exposes the rules state shared by every skill variant
	Base() *Basic

	// Roll resolves a single roll into a graded result
	Roll(roller dice.Roller, opts *RollOptions) (*Result, error)

	// ExperienceRoll spends a pending experience check
	ExperienceRoll(roller dice.Roller, intelligence, improvementDie int) (*Improvement, error)
}

// Basic is the standard skill
type Basic struct {
	Name       string
	Category   shared.Category
	Chance     int
	Experience ExperienceState
	// Improvable is false for the few skills that never grow from use
	Improvable bool
}

// NewBasic creates an improvable skill
func NewBasic(name string, category shared.Category, chance int) *Basic {
	return FromDefinition(Definition{
		Name:       name,
		Category:   category,
		Chance:     chance,
		Improvable: true,
	})
}

// FromDefinition creates a fresh skill from a table entry
func FromDefinition(def Definition) *Basic {
	chance := def.Chance
	if chance < 0 {
		chance = 0
	}
	return &Basic{
		Name:       def.Name,
		Category:   def.Category,
		Chance:     chance,
		Experience: ExperienceIdle,
		Improvable: def.Improvable,
	}
}

func (b *Basic) Base() *Basic {
	return b
}

func (b *Basic) Roll(roller dice.Roller, opts *RollOptions) (*Result, error) {
	return Resolve(roller, b, opts)
}

func (b *Basic) ExperienceRoll(roller dice.Roller, intelligence, improvementDie int) (*Improvement, error) {
	return ExperienceRoll(roller, b, intelligence, improvementDie)
}

// Improve raises the chance by amount. The chance never drops below zero and
// is not capped at 100.
func (b *Basic) Improve(amount int) {
	b.SetChance(b.Chance + amount)
}

// SetChance assigns the chance directly, as done while building a character
func (b *Basic) SetChance(chance int) {
	if chance < 0 {
		chance = 0
	}
	b.Chance = chance
}

// Pending reports whether the skill is due for an experience roll
func (b *Basic) Pending() bool {
	return b.Experience == ExperiencePending
}

// Definition returns the table entry equivalent of the skill
func (b *Basic) Definition() Definition {
	return Definition{
		Name:       b.Name,
		Category:   b.Category,
		Chance:     b.Chance,
		Improvable: b.Improvable,
	}
}

// Factory builds the skill variant a character uses for a table entry
type Factory func(def Definition) (Skill, error)

// BasicFactory builds plain skills
func BasicFactory(def Definition) (Skill, error) {
	return FromDefinition(def), nil
}

// Build runs factory and checks the variant it produced honors the contract
func Build(factory Factory, def Definition) (Skill, error) {
	if factory == nil {
		factory = BasicFactory
	}

	s, err := factory(def)
	if err != nil {
		return nil, brperr.Wrapf(err, "failed to build skill %q", def.Name)
	}
	if s == nil || s.Base() == nil {
		return nil, brperr.Contractf("skill factory returned no skill for %q", def.Name).
			WithMeta("skill", def.Name)
	}
	if s.Base().Name != def.Name {
		return nil, brperr.Contractf("skill factory renamed %q to %q", def.Name, s.Base().Name).
			WithMeta("skill", def.Name)
	}
	if s.Base().Experience == "" {
		s.Base().Experience = ExperienceIdle
	}
	return s, nil
}
