package rulebook

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

//go:embed data/default_skills.yaml
var defaultSkillsYAML []byte

// Skills every character is built with, whatever the table says
const (
	SkillDodge           = "Dodge"
	SkillDrive           = "Drive (various)"
	SkillLanguageVarious = "Language (various)"
	SkillLiteracy        = "Literacy"
	SkillGaming          = "Gaming"
	SkillFly             = "Fly"
	SkillProjection      = "Projection"
	SkillBlasphemousLore = "Blasphemous Lore"

	SkillEffort  = "Effort"
	SkillStamina = "Stamina"
	SkillIdea    = "Idea"
	SkillLuck    = "Luck"
	SkillAgility = "Agility"
	SkillCharm   = "Charm"
	SkillKnow    = "Know"
)

type skillEntry struct {
	Name       string `yaml:"name"`
	Chance     int    `yaml:"chance"`
	Improvable *bool  `yaml:"improvable"`
}

var (
	standardOnce  sync.Once
	standardTable *skill.Table
	standardErr   error
)

// StandardSkills returns the static skill table. It is parsed once and shared;
// the table is immutable so sharing is safe.
func StandardSkills() (*skill.Table, error) {
	standardOnce.Do(func() {
		standardTable, standardErr = ParseSkillTable(defaultSkillsYAML)
	})
	return standardTable, standardErr
}

// ParseSkillTable reads a YAML document mapping category names to skill
// entries. Skills are improvable unless they say otherwise.
func ParseSkillTable(data []byte) (*skill.Table, error) {
	var doc map[shared.Category][]skillEntry
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeParse, "failed to parse skill table")
	}

	defs := make([]skill.Definition, 0)
	for category, entries := range doc {
		if !knownCategory(category) {
			return nil, brperr.Validationf("unknown skill category %q", string(category)).
				WithMeta("category", string(category))
		}
		for _, entry := range entries {
			if entry.Name == "" {
				return nil, brperr.Validationf("skill in category %s has no name", category)
			}
			improvable := true
			if entry.Improvable != nil {
				improvable = *entry.Improvable
			}
			defs = append(defs, skill.Definition{
				Name:       entry.Name,
				Category:   category,
				Chance:     entry.Chance,
				Improvable: improvable,
			})
		}
	}

	return skill.NewTable(defs...), nil
}

func knownCategory(c shared.Category) bool {
	for _, known := range shared.Categories {
		if known == c {
			return true
		}
	}
	return false
}

// SkillOptions are the character toggles that change default chances
type SkillOptions struct {
	Scores           shared.Scores
	UseEducation     bool
	Literate         bool
	CanDrive         bool
	CanFly           bool
	EnergyProjection bool
	PrimaryLanguage  string
}

// LanguageSkillName is the key of a character's own language skill
func LanguageSkillName(primaryLanguage string) string {
	if primaryLanguage == "" {
		return "Language (own)"
	}
	return fmt.Sprintf("Language (%s)", primaryLanguage)
}

// CharacteristicSkills returns the entries whose chance is computed from a
// character's characteristics, layered over the standard table. The
// characteristic rolls are included as skills that never improve.
func CharacteristicSkills(base *skill.Table, opts SkillOptions) []skill.Definition {
	s := opts.Scores
	lookup := func(name string, category shared.Category) skill.Definition {
		if def, ok := base.Lookup(name); ok {
			return def
		}
		return skill.Definition{Name: name, Category: category, Improvable: true}
	}

	defs := make([]skill.Definition, 0, 14)

	dodge := lookup(SkillDodge, shared.CategoryPhysical)
	dodge.Chance = 2 * s.DEX
	defs = append(defs, dodge)

	if opts.CanDrive {
		drive := lookup(SkillDrive, shared.CategoryPhysical)
		drive.Chance = 20
		defs = append(defs, drive)
	}

	languageChance := 5 * s.INT
	if opts.UseEducation {
		languageChance = 5 * max(s.INT, s.EDU)
	}
	defs = append(defs, skill.Definition{
		Name:       LanguageSkillName(opts.PrimaryLanguage),
		Category:   shared.CategoryCommunication,
		Chance:     languageChance,
		Improvable: true,
	})

	if opts.Literate {
		literacy := lookup(SkillLiteracy, shared.CategoryMental)
		literacy.Chance = languageChance
		defs = append(defs, literacy)
	}

	defs = append(defs, skill.Definition{
		Name:       SkillGaming,
		Category:   shared.CategoryCommunication,
		Chance:     s.INT + s.POW,
		Improvable: true,
	})

	fly := lookup(SkillFly, shared.CategoryPhysical)
	if opts.CanFly {
		fly.Chance = 4 * s.DEX
	} else {
		fly.Chance = s.DEX / 2
	}
	defs = append(defs, fly)

	if opts.EnergyProjection {
		projection := lookup(SkillProjection, shared.CategoryPhysical)
		projection.Chance = 2 * s.DEX
		defs = append(defs, projection)
	}

	for _, roll := range []struct {
		name  string
		value int
	}{
		{SkillEffort, s.STR},
		{SkillStamina, s.CON},
		{SkillIdea, s.INT},
		{SkillLuck, s.POW},
		{SkillAgility, s.DEX},
		{SkillCharm, s.CHA},
		{SkillKnow, s.EDU},
	} {
		defs = append(defs, skill.Definition{
			Name:     roll.name,
			Category: shared.CategoryNone,
			Chance:   5 * roll.value,
		})
	}

	return defs
}

// SkillDefaults builds the per-character default table: the standard table,
// then characteristic driven chances, then any setting specific skills.
func SkillDefaults(opts SkillOptions, extra ...skill.Definition) (*skill.Table, error) {
	base, err := StandardSkills()
	if err != nil {
		return nil, err
	}
	return base.With(CharacteristicSkills(base, opts)...).With(extra...), nil
}
