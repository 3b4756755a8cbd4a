package records

import (
	"encoding/json"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	"github.com/KirkDiggler/brp-sheet/internal/domain/variants/raven"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

type guiltPayload struct {
	Guilt int `json:"guilt"`
}

func registerRaven(r *Registry) error {
	err := r.RegisterSkill(SkillVariant{
		Kind:    raven.SkillKind,
		Factory: raven.SkillFactory,
		Extension: func(s skill.Skill) (any, error) {
			rs, ok := s.(*raven.Skill)
			if !ok {
				return nil, brperr.Contractf("skill %s is not a raven skill", s.Base().Name)
			}
			return guiltPayload{Guilt: rs.Guilt}, nil
		},
		Restore: func(s skill.Skill, payload json.RawMessage) error {
			rs, ok := s.(*raven.Skill)
			if !ok {
				return brperr.Contractf("skill %s is not a raven skill", s.Base().Name)
			}
			if len(payload) == 0 {
				return nil
			}
			var p guiltPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return brperr.WrapWithCode(err, brperr.CodeParse, "failed to decode skill guilt")
			}
			rs.Guilt = p.Guilt
			return nil
		},
	})
	if err != nil {
		return err
	}

	return r.RegisterCharacter(CharacterVariant{
		Kind:      raven.Kind,
		SkillKind: raven.SkillKind,
		Wrap: func(base *character.Character, payload json.RawMessage) (character.Sheet, error) {
			p := guiltPayload{Guilt: raven.DefaultCharacterGuilt}
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, &p); err != nil {
					return nil, brperr.WrapWithCode(err, brperr.CodeParse, "failed to decode character guilt")
				}
			}
			return &raven.Character{Character: base, Guilt: p.Guilt}, nil
		},
		Extension: func(sheet character.Sheet) (any, error) {
			rc, ok := sheet.(*raven.Character)
			if !ok {
				return nil, brperr.Contractf("sheet %s is not a raven character", sheet.Base().ID)
			}
			return guiltPayload{Guilt: rc.Guilt}, nil
		},
	})
}
