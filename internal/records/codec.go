package records

import (
	"encoding/json"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// Encode converts a sheet into its record
func (r *Registry) Encode(sheet character.Sheet) (*CharacterRecord, error) {
	if sheet == nil || sheet.Base() == nil {
		return nil, brperr.InvalidArgument("character cannot be nil")
	}
	c := sheet.Base()

	kind := c.Kind
	if kind == "" {
		kind = character.KindBasic
	}
	cv, err := r.Character(kind)
	if err != nil {
		return nil, err
	}
	sv, err := r.Skill(cv.SkillKind)
	if err != nil {
		return nil, err
	}

	rec := &CharacterRecord{
		Version:         CurrentVersion,
		Kind:            kind,
		ID:              c.ID,
		OwnerID:         c.OwnerID,
		CampaignID:      c.CampaignID,
		Biography:       c.Bio,
		Characteristics: c.Scores,
		Rules:           c.Rules,
		Powers:          c.Powers,
		Equipment:       c.Equipment,
		MaxSpeciesPOW:   c.MaxSpeciesPOW,
		MinSpeciesPOW:   c.MinSpeciesPOW,
		POWImprovement:  string(c.POWImprovement),
		Skills:          make(map[string]SkillRecord, len(c.Skills)),
		CategoryBonuses: c.CategoryBonuses.Clone(),
		Derived: DerivedRecord{
			DamageModifier:             c.DamageModifier,
			MaxHitPoints:               c.MaxHitPoints,
			MajorWoundLevel:            c.MajorWoundLevel,
			MaxHitPointsByLocation:     copyLocations(c.MaxHitPointsByLocation),
			TemporaryInsanityThreshold: c.TemporaryInsanityThreshold,
			MaxPowerPoints:             c.MaxPowerPoints,
		},
		Health: HealthRecord{
			Damage:         c.Damage,
			LocationDamage: copyLocations(c.LocationDamage),
			MinorWound:     c.MinorWound,
			MajorWound:     c.MajorWound,
			FatalWound:     c.FatalWound,
			Fatigue:        c.Fatigue,
			PowerPoints:    c.PowerPoints,
		},
		Sanity: SanityRecord{
			Sanity:            c.Sanity,
			RecentLoss:        c.RecentSanityLoss,
			TemporarilyInsane: c.TemporarilyInsane,
			PermanentlyInsane: c.PermanentlyInsane,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	rec.Equipment.ArmorPenalty = c.Equipment.ArmorPenalty.Clone()

	for name, s := range c.Skills {
		sr, err := encodeSkill(sv, s)
		if err != nil {
			return nil, brperr.Wrapf(err, "failed to encode skill %s", name)
		}
		rec.Skills[name] = sr
	}

	if cv.Extension != nil {
		payload, err := cv.Extension(sheet)
		if err != nil {
			return nil, err
		}
		if rec.Extension, err = json.Marshal(payload); err != nil {
			return nil, brperr.WrapWithCode(err, brperr.CodeInternal, "failed to encode character extension")
		}
	}

	return rec, nil
}

func encodeSkill(sv SkillVariant, s skill.Skill) (SkillRecord, error) {
	if s == nil || s.Base() == nil {
		return SkillRecord{}, brperr.Contractf("skill is nil")
	}
	base := s.Base()
	sr := SkillRecord{
		Kind:       sv.Kind,
		Name:       base.Name,
		Category:   base.Category,
		Chance:     base.Chance,
		Experience: string(base.Experience),
		Improvable: base.Improvable,
	}
	if sv.Extension != nil {
		payload, err := sv.Extension(s)
		if err != nil {
			return SkillRecord{}, err
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return SkillRecord{}, brperr.WrapWithCode(err, brperr.CodeInternal, "failed to encode skill extension")
		}
		sr.Extension = raw
	}
	return sr, nil
}

// Decode rebuilds a sheet from its record. Stored derived attributes are
// kept as they are. opts are applied to the restored character, typically to
// inject a dice roller.
func (r *Registry) Decode(rec *CharacterRecord, opts ...character.Option) (character.Sheet, error) {
	if rec == nil {
		return nil, brperr.InvalidArgument("record cannot be nil")
	}
	kind := rec.Kind
	if kind == "" {
		kind = character.KindBasic
	}
	cv, err := r.Character(kind)
	if err != nil {
		return nil, err
	}
	sv, err := r.Skill(cv.SkillKind)
	if err != nil {
		return nil, err
	}

	c := &character.Character{
		ID:                         rec.ID,
		OwnerID:                    rec.OwnerID,
		CampaignID:                 rec.CampaignID,
		Kind:                       kind,
		Bio:                        rec.Biography,
		Scores:                     rec.Characteristics,
		Rules:                      rec.Rules,
		Powers:                     rec.Powers,
		Equipment:                  rec.Equipment,
		MaxSpeciesPOW:              rec.MaxSpeciesPOW,
		MinSpeciesPOW:              rec.MinSpeciesPOW,
		POWImprovement:             character.ImprovementState(rec.POWImprovement),
		CategoryBonuses:            rec.CategoryBonuses.Clone(),
		DamageModifier:             rec.Derived.DamageModifier,
		MaxHitPoints:               rec.Derived.MaxHitPoints,
		MajorWoundLevel:            rec.Derived.MajorWoundLevel,
		MaxHitPointsByLocation:     copyLocations(rec.Derived.MaxHitPointsByLocation),
		TemporaryInsanityThreshold: rec.Derived.TemporaryInsanityThreshold,
		MaxPowerPoints:             rec.Derived.MaxPowerPoints,
		Fatigue:                    rec.Health.Fatigue,
		PowerPoints:                rec.Health.PowerPoints,
		Damage:                     rec.Health.Damage,
		LocationDamage:             copyLocations(rec.Health.LocationDamage),
		MinorWound:                 rec.Health.MinorWound,
		MajorWound:                 rec.Health.MajorWound,
		FatalWound:                 rec.Health.FatalWound,
		Sanity:                     rec.Sanity.Sanity,
		RecentSanityLoss:           rec.Sanity.RecentLoss,
		TemporarilyInsane:          rec.Sanity.TemporarilyInsane,
		PermanentlyInsane:          rec.Sanity.PermanentlyInsane,
		Skills:                     make(map[string]skill.Skill, len(rec.Skills)),
		CreatedAt:                  rec.CreatedAt,
		UpdatedAt:                  rec.UpdatedAt,
	}
	c.Equipment.ArmorPenalty = rec.Equipment.ArmorPenalty.Clone()
	if c.POWImprovement == "" {
		c.POWImprovement = character.ImprovementIdle
	}
	if c.LocationDamage == nil {
		c.LocationDamage = make(map[shared.Location]int)
	}
	c.Apply(append([]character.Option{character.WithSkillFactory(sv.Factory)}, opts...)...)

	for name, sr := range rec.Skills {
		s, err := decodeSkill(sv, sr)
		if err != nil {
			return nil, brperr.Wrapf(err, "failed to decode skill %s", name)
		}
		c.Skills[name] = s
	}

	if cv.Wrap == nil {
		return c, nil
	}
	return cv.Wrap(c, rec.Extension)
}

func decodeSkill(sv SkillVariant, sr SkillRecord) (skill.Skill, error) {
	if sr.Kind != "" && sr.Kind != sv.Kind {
		return nil, brperr.Contractf("skill %s has kind %q, character expects %q", sr.Name, sr.Kind, sv.Kind).
			WithMeta("kind", sr.Kind)
	}

	s, err := skill.Build(sv.Factory, skill.Definition{
		Name:       sr.Name,
		Category:   sr.Category,
		Chance:     sr.Chance,
		Improvable: sr.Improvable,
	})
	if err != nil {
		return nil, err
	}

	switch skill.ExperienceState(sr.Experience) {
	case skill.ExperiencePending:
		s.Base().Experience = skill.ExperiencePending
	default:
		s.Base().Experience = skill.ExperienceIdle
	}

	if sv.Restore != nil {
		if err := sv.Restore(s, sr.Extension); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Marshal encodes a sheet as indented JSON
func (r *Registry) Marshal(sheet character.Sheet) ([]byte, error) {
	rec, err := r.Encode(sheet)
	if err != nil {
		return nil, err
	}
	return MarshalRecord(rec)
}

// MarshalRecord writes a record as indented JSON
func MarshalRecord(rec *CharacterRecord) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInternal, "failed to marshal character record")
	}
	return data, nil
}

// UnmarshalRecord validates data against the record schema and decodes it
func UnmarshalRecord(data []byte) (*CharacterRecord, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var rec CharacterRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeParse, "failed to decode character record")
	}
	return &rec, nil
}

// Unmarshal validates and decodes data into a sheet
func (r *Registry) Unmarshal(data []byte, opts ...character.Option) (character.Sheet, error) {
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	return r.Decode(rec, opts...)
}

func copyLocations(in map[shared.Location]int) map[shared.Location]int {
	if in == nil {
		return nil
	}
	out := make(map[shared.Location]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
