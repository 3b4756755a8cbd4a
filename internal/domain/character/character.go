// Package character holds the rules state of a single creature and the
// operations that mutate it: skill dispatch, opposed rolls, damage, sanity and
// experience.
package character

import (
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// Kind names a character variant for persistence
type Kind string

const KindBasic Kind = "basic"

// Species POW range for humans
const (
	DefaultMaxSpeciesPOW = 18
	DefaultMinSpeciesPOW = 3
)

// ImprovementState tracks the one-shot POW improvement trigger
type ImprovementState string

const (
	ImprovementIdle    ImprovementState = "idle"
	ImprovementPending ImprovementState = "pending"
)

// Sheet is implemented by every character variant. Variants embed
// *Character and add their own state.
type Sheet interface {
	Base() *Character
}

type Biography struct {
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	Age             int    `json:"age"`
	Personality     string `json:"personality"`
	Profession      string `json:"profession"`
	PowerLevel      string `json:"power_level"`
	PrimaryLanguage string `json:"primary_language"`
	Wealth          string `json:"wealth"`
}

// Rules are the optional rule toggles chosen for a character
type Rules struct {
	// Tough uses CON+SIZ as total hit points
	Tough                  bool `json:"tough"`
	UseCategoryBonus       bool `json:"use_category_bonus"`
	UseSimpleCategoryBonus bool `json:"use_simple_category_bonus"`
	UseEducation           bool `json:"use_education"`
	Literate               bool `json:"literate"`
	CanFly                 bool `json:"can_fly"`
	CanDrive               bool `json:"can_drive"`
	EnergyProjection       bool `json:"energy_projection"`
	ImprovementDie         int  `json:"improvement_die"`
}

// DefaultRules are the toggles a new character starts with
func DefaultRules() Rules {
	return Rules{
		UseCategoryBonus: true,
		UseEducation:     true,
		Literate:         true,
		CanFly:           true,
		CanDrive:         true,
		ImprovementDie:   skill.DefaultImprovementDie,
	}
}

type Powers struct {
	Magic      bool `json:"magic"`
	Mutation   bool `json:"mutation"`
	Psychic    bool `json:"psychic"`
	Sorcery    bool `json:"sorcery"`
	Superpower bool `json:"superpower"`
}

type Equipment struct {
	Armor string `json:"armor"`
	// ArmorProtection is an integer or an NdM roll string
	ArmorProtection string                   `json:"armor_protection"`
	ArmorPenalty    shared.CategoryModifiers `json:"armor_penalty"`
	PrimaryWeapon   string                   `json:"primary_weapon"`
	SecondaryWeapon string                   `json:"secondary_weapon"`
	RangedWeapon    string                   `json:"ranged_weapon"`
}

type Character struct {
	ID         string
	OwnerID    string
	CampaignID string
	Kind       Kind

	Bio       Biography
	Scores    shared.Scores
	Rules     Rules
	Powers    Powers
	Equipment Equipment

	MaxSpeciesPOW  int
	MinSpeciesPOW  int
	POWImprovement ImprovementState

	Skills          map[string]skill.Skill
	CategoryBonuses shared.CategoryModifiers

	// Derived at construction and never recomputed
	DamageModifier             string
	MaxHitPoints               int
	MajorWoundLevel            int
	MaxHitPointsByLocation     map[shared.Location]int
	TemporaryInsanityThreshold int
	MaxPowerPoints             int

	Fatigue     int
	PowerPoints int

	Damage         int
	LocationDamage map[shared.Location]int
	MinorWound     bool
	MajorWound     bool
	FatalWound     bool

	Sanity            int
	RecentSanityLoss  int
	TemporarilyInsane bool
	PermanentlyInsane bool

	CreatedAt time.Time
	UpdatedAt time.Time

	diceRoller   dice.Roller
	skillFactory skill.Factory
}

// Config describes a character to build
type Config struct {
	ID         string
	OwnerID    string
	CampaignID string
	Kind       Kind

	Bio       Biography
	Scores    shared.Scores
	Rules     Rules
	Powers    Powers
	Equipment Equipment

	// Zero selects the human range
	MaxSpeciesPOW int
	MinSpeciesPOW int

	// Skills overrides table entries for this character only
	Skills []skill.Definition
	// NewSkillDefaults adds setting specific skills to the table
	NewSkillDefaults []skill.Definition
}

type Option func(*Character)

// WithRoller sets the dice roller used by every rule call
func WithRoller(roller dice.Roller) Option {
	return func(c *Character) {
		c.diceRoller = roller
	}
}

// WithSkillFactory selects the skill variant built for each table entry
func WithSkillFactory(factory skill.Factory) Option {
	return func(c *Character) {
		c.skillFactory = factory
	}
}

// New builds a character and computes its derived attributes
func New(cfg Config, opts ...Option) (*Character, error) {
	if cfg.Rules.ImprovementDie < 0 {
		return nil, brperr.InvalidArgumentf("improvement die must not be negative, got %d", cfg.Rules.ImprovementDie)
	}
	if cfg.Rules.ImprovementDie == 0 {
		cfg.Rules.ImprovementDie = skill.DefaultImprovementDie
	}
	if cfg.MaxSpeciesPOW == 0 && cfg.MinSpeciesPOW == 0 {
		cfg.MaxSpeciesPOW, cfg.MinSpeciesPOW = DefaultMaxSpeciesPOW, DefaultMinSpeciesPOW
	}
	if cfg.MinSpeciesPOW > cfg.MaxSpeciesPOW {
		return nil, brperr.InvalidArgumentf("species POW range %d-%d is inverted", cfg.MinSpeciesPOW, cfg.MaxSpeciesPOW)
	}
	if cfg.Kind == "" {
		cfg.Kind = KindBasic
	}

	derived := rulebook.Derive(cfg.Scores, cfg.Rules.Tough)
	c := &Character{
		ID:                         cfg.ID,
		OwnerID:                    cfg.OwnerID,
		CampaignID:                 cfg.CampaignID,
		Kind:                       cfg.Kind,
		Bio:                        cfg.Bio,
		Scores:                     cfg.Scores,
		Rules:                      cfg.Rules,
		Powers:                     cfg.Powers,
		Equipment:                  cfg.Equipment,
		MaxSpeciesPOW:              cfg.MaxSpeciesPOW,
		MinSpeciesPOW:              cfg.MinSpeciesPOW,
		POWImprovement:             ImprovementIdle,
		CategoryBonuses:            rulebook.SelectCategoryBonuses(cfg.Scores, cfg.Rules.UseCategoryBonus, cfg.Rules.UseSimpleCategoryBonus),
		DamageModifier:             derived.DamageModifier,
		MaxHitPoints:               derived.MaxHitPoints,
		MajorWoundLevel:            derived.MajorWoundLevel,
		MaxHitPointsByLocation:     derived.MaxHitPointsByLocation,
		TemporaryInsanityThreshold: derived.TemporaryInsanityThreshold,
		MaxPowerPoints:             derived.PowerPoints,
		Fatigue:                    derived.Fatigue,
		PowerPoints:                derived.PowerPoints,
		Sanity:                     derived.Sanity,
		LocationDamage:             make(map[shared.Location]int, len(shared.Locations)),
	}
	if c.Equipment.ArmorPenalty == nil {
		c.Equipment.ArmorPenalty = shared.ZeroCategoryModifiers()
	}
	for _, loc := range shared.Locations {
		c.LocationDamage[loc] = 0
	}

	c.Apply(opts...)

	table, err := rulebook.SkillDefaults(rulebook.SkillOptions{
		Scores:           cfg.Scores,
		UseEducation:     cfg.Rules.UseEducation,
		Literate:         cfg.Rules.Literate,
		CanDrive:         cfg.Rules.CanDrive,
		CanFly:           cfg.Rules.CanFly,
		EnergyProjection: cfg.Rules.EnergyProjection,
		PrimaryLanguage:  cfg.Bio.PrimaryLanguage,
	}, cfg.NewSkillDefaults...)
	if err != nil {
		return nil, err
	}
	if err := c.SetSkills(table.With(cfg.Skills...).Definitions()); err != nil {
		return nil, err
	}

	return c, nil
}

// Apply runs options against an already built character, such as one
// restored from a record
func (c *Character) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Base implements Sheet
func (c *Character) Base() *Character {
	return c
}

// WithDiceRoller sets a custom dice roller (for testing)
func (c *Character) WithDiceRoller(roller dice.Roller) *Character {
	c.diceRoller = roller
	return c
}

// getDiceRoller returns the dice roller, initializing if needed
func (c *Character) getDiceRoller() dice.Roller {
	if c.diceRoller == nil {
		c.diceRoller = dice.NewRandomRoller()
	}
	return c.diceRoller
}

// SkillFactory returns the factory used to build this character's skills
func (c *Character) SkillFactory() skill.Factory {
	if c.skillFactory == nil {
		return skill.BasicFactory
	}
	return c.skillFactory
}

// SetSkillFactory switches the skill variant and rebuilds every skill,
// keeping chances and experience state
func (c *Character) SetSkillFactory(factory skill.Factory) error {
	previous := c.skillFactory
	c.skillFactory = factory

	rebuilt := make(map[string]skill.Skill, len(c.Skills))
	for name, existing := range c.Skills {
		s, err := skill.Build(c.SkillFactory(), existing.Base().Definition())
		if err != nil {
			c.skillFactory = previous
			return err
		}
		s.Base().Experience = existing.Base().Experience
		rebuilt[name] = s
	}
	c.Skills = rebuilt
	return nil
}

// SetSkills replaces the skill map with fresh skills built from defs
func (c *Character) SetSkills(defs []skill.Definition) error {
	skills := make(map[string]skill.Skill, len(defs))
	for _, def := range defs {
		s, err := skill.Build(c.SkillFactory(), def)
		if err != nil {
			return err
		}
		skills[def.Name] = s
	}
	c.Skills = skills
	return nil
}

// SkillNames returns the names of every skill, sorted
func (c *Character) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for name := range c.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Skill finds a skill by name. A specialised name such as "Firearm (Rifle)"
// falls back to its generic "Firearm (various)" entry.
func (c *Character) Skill(name string) (skill.Skill, error) {
	if s, ok := c.Skills[name]; ok {
		return s, nil
	}

	words := strings.Split(name, " ")
	generic := strings.Join(append(words[:len(words)-1:len(words)-1], "(various)"), " ")
	if s, ok := c.Skills[generic]; ok {
		return s, nil
	}

	return nil, brperr.NotFoundf("selected skill %s is not a valid skill and has no generic type", name).
		WithMeta("skill", name)
}

// SkillChance is the chance of the named skill, or zero when the character
// does not have it
func (c *Character) SkillChance(name string) int {
	s, ok := c.Skills[name]
	if !ok {
		return 0
	}
	return s.Base().Chance
}

// HitPoints is the number of hit points left
func (c *Character) HitPoints() int {
	return c.MaxHitPoints - c.Damage
}
