package character

import (
	"context"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/rulebook"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/events"
)

func (s *service) SkillRoll(ctx context.Context, input *SkillRollInput) (*skill.Result, error) {
	if err := ValidateInput(input); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid skill roll input")
	}

	var result *skill.Result
	sheet, err := s.mutate(ctx, input.CharacterID, "SkillRoll", func(sheet character.Sheet) error {
		opts := input.Options
		var err error
		result, err = sheet.Base().MakeSkillRoll(input.Skill, &opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(&events.SkillRolledEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSkillRolled, sheet.Base()),
		Skill:     input.Skill,
		Result:    result,
	})
	return result, nil
}

// WeaponDamage rolls damage without changing the sheet
func (s *service) WeaponDamage(ctx context.Context, characterID string, slot character.WeaponSlot) (*character.WeaponDamage, error) {
	sheet, err := s.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	damage, err := sheet.Base().RollWeaponDamage(slot)
	if err != nil {
		return nil, err
	}

	s.emit(&events.WeaponRolledEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeWeaponRolled, sheet.Base()),
		Slot:      slot,
		Damage:    damage,
	})
	return damage, nil
}

func (s *service) TakeDamage(ctx context.Context, input *TakeDamageInput) (*character.Condition, error) {
	if err := ValidateInput(input); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid damage input")
	}

	var condition *character.Condition
	sheet, err := s.mutate(ctx, input.CharacterID, "TakeDamage", func(sheet character.Sheet) error {
		var err error
		condition, err = sheet.Base().TakeDamage(input.Amount, input.BypassArmor, input.Location)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(&events.DamageTakenEvent{
		BaseEvent:   events.NewBaseEvent(events.EventTypeDamageTaken, sheet.Base()),
		Amount:      input.Amount,
		BypassArmor: input.BypassArmor,
		Location:    input.Location,
		Condition:   condition,
	})
	return condition, nil
}

func (s *service) HealDamage(ctx context.Context, input *HealDamageInput) (character.Sheet, error) {
	if err := ValidateInput(input); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid heal input")
	}

	sheet, err := s.mutate(ctx, input.CharacterID, "HealDamage", func(sheet character.Sheet) error {
		return sheet.Base().HealDamage(input.Amount, input.HealWounds, input.Location)
	})
	if err != nil {
		return nil, err
	}

	s.emit(&events.DamageHealedEvent{
		BaseEvent:  events.NewBaseEvent(events.EventTypeDamageHealed, sheet.Base()),
		Amount:     input.Amount,
		HealWounds: input.HealWounds,
		Location:   input.Location,
	})
	return sheet, nil
}

func (s *service) SanityRoll(ctx context.Context, input *SanityRollInput) (*character.SanityResult, error) {
	if err := ValidateInput(input); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid sanity roll input")
	}

	var result *character.SanityResult
	sheet, err := s.mutate(ctx, input.CharacterID, "SanityRoll", func(sheet character.Sheet) error {
		var err error
		result, err = sheet.Base().SanityRoll(input.LossOnSuccess, input.LossOnFail)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(&events.SanityRolledEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSanityRolled, sheet.Base()),
		Result:    result,
	})
	return result, nil
}

func (s *service) RecoverSanity(ctx context.Context, characterID, amount string) (int, error) {
	var before int
	sheet, err := s.mutate(ctx, characterID, "RecoverSanity", func(sheet character.Sheet) error {
		before = sheet.Base().Sanity
		_, err := sheet.Base().RecoverSanity(amount)
		return err
	})
	if err != nil {
		return 0, err
	}

	sanity := sheet.Base().Sanity
	s.emit(&events.SanityRecoveredEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSanityRecovered, sheet.Base()),
		Gained:    sanity - before,
	})
	return sanity, nil
}

func (s *service) ResetSanityLoss(ctx context.Context, characterID string) error {
	var cleared int
	sheet, err := s.mutate(ctx, characterID, "ResetSanityLoss", func(sheet character.Sheet) error {
		cleared = sheet.Base().RecentSanityLoss
		sheet.Base().ResetRecentSanityLoss()
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(&events.SanityResetEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeSanityReset, sheet.Base()),
		Cleared:   cleared,
	})
	return nil
}

func (s *service) ModifyFatigue(ctx context.Context, characterID string, amount int) (int, error) {
	sheet, err := s.mutate(ctx, characterID, "ModifyFatigue", func(sheet character.Sheet) error {
		sheet.Base().ModifyFatigue(amount)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.emit(&events.FatigueChangedEvent{
		BaseEvent: events.NewBaseEvent(events.EventTypeFatigueChanged, sheet.Base()),
		Amount:    amount,
	})
	return sheet.Base().Fatigue, nil
}

func (s *service) ExperiencePass(ctx context.Context, characterID string) (*ExperienceOutput, error) {
	out := &ExperienceOutput{}
	sheet, err := s.mutate(ctx, characterID, "ExperiencePass", func(sheet character.Sheet) error {
		c := sheet.Base()
		var err error
		if out.Improvements, err = c.MakeExperienceRolls(); err != nil {
			return err
		}
		out.POWGain, err = c.ImprovePOW()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(&events.ExperienceSpentEvent{
		BaseEvent:    events.NewBaseEvent(events.EventTypeExperienceSpent, sheet.Base()),
		Improvements: out.Improvements,
		POWGain:      out.POWGain,
	})
	return out, nil
}

// opponent resolves the other side of a contest. A stored opponent is only
// read, so experience it earns is not kept.
func (s *service) opponent(ctx context.Context, input OpponentInput, defaultSkill string) (character.Opponent, error) {
	if input.CharacterID == "" {
		return character.AgainstChance(input.Chance), nil
	}
	other, err := s.load(ctx, input.CharacterID)
	if err != nil {
		return character.Opponent{}, brperr.Wrap(err, "failed to load opponent").
			WithMeta("opponent_id", input.CharacterID)
	}
	name := input.Skill
	if name == "" {
		name = defaultSkill
	}
	return character.AgainstCharacterSkill(other.Base(), name)
}

func (s *service) OpposedRoll(ctx context.Context, input *OpposedRollInput) (*OpposedRollOutput, error) {
	if err := ValidateInput(input); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid opposed roll input")
	}

	opponent, err := s.opponent(ctx, input.Opponent, input.Skill)
	if err != nil {
		return nil, err
	}

	out := &OpposedRollOutput{}
	sheet, err := s.mutate(ctx, input.CharacterID, "OpposedRoll", func(sheet character.Sheet) error {
		c := sheet.Base()
		switch input.Method {
		case OpposedHighest:
			result, err := c.OpposedHighestSuccess(input.Skill, opponent, input.Tiebreak)
			if err != nil {
				return err
			}
			out.Won, out.Mine, out.Theirs = result.Won, result.Mine, result.Theirs
		case OpposedSubtraction:
			result, err := c.OpposedSubtraction(input.Skill, opponent)
			if err != nil {
				return err
			}
			out.Won, out.Mine = result.Rank() > skill.RankFailure, result
		case OpposedResistanceTable:
			won, err := c.OpposedResistanceTable(input.Skill, opponent)
			if err != nil {
				return err
			}
			out.Won = won
		case OpposedResistance:
			won, err := c.OpposedResistance(input.Skill, opponent)
			if err != nil {
				return err
			}
			out.Won = won
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(&events.OpposedRolledEvent{
		BaseEvent:  events.NewBaseEvent(events.EventTypeOpposedRolled, sheet.Base()),
		Skill:      input.Skill,
		Method:     string(input.Method),
		OpponentID: input.Opponent.CharacterID,
		Won:        out.Won,
		Mine:       out.Mine,
		Theirs:     out.Theirs,
	})
	return out, nil
}

func (s *service) POWCheck(ctx context.Context, input *POWCheckInput) (bool, error) {
	if err := ValidateInput(input); err != nil {
		return false, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid POW check input")
	}

	opponent, err := s.opponent(ctx, input.Opponent, rulebook.SkillLuck)
	if err != nil {
		return false, err
	}

	var won bool
	sheet, err := s.mutate(ctx, input.CharacterID, "POWCheck", func(sheet character.Sheet) error {
		var err error
		won, err = sheet.Base().OpposedPOWCheck(opponent)
		return err
	})
	if err != nil {
		return false, err
	}

	s.emit(&events.POWCheckedEvent{
		BaseEvent:  events.NewBaseEvent(events.EventTypePOWChecked, sheet.Base()),
		OpponentID: input.Opponent.CharacterID,
		Won:        won,
	})
	return won, nil
}

// CharacteristicRoll leaves the sheet unchanged so nothing is saved
func (s *service) CharacteristicRoll(ctx context.Context, input *CharacteristicRollInput) (bool, error) {
	if err := ValidateInput(input); err != nil {
		return false, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid characteristic roll input")
	}

	sheet, err := s.load(ctx, input.CharacterID)
	if err != nil {
		return false, err
	}
	success, err := sheet.Base().CharacteristicRoll(input.Characteristic, input.Multiplier, input.Advantage, input.Modifier)
	if err != nil {
		return false, brperr.Wrap(err, "CharacteristicRoll failed").
			WithMeta("character_id", input.CharacterID)
	}

	s.emit(&events.CharacteristicRolledEvent{
		BaseEvent:      events.NewBaseEvent(events.EventTypeCharacteristic, sheet.Base()),
		Characteristic: input.Characteristic,
		Multiplier:     input.Multiplier,
		Success:        success,
	})
	return success, nil
}
