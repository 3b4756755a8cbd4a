package character

import (
	"fmt"
	"strings"
)

// Validator is implemented by every service input
type Validator interface {
	Validate() error
}

// ValidateInput validates any input that implements Validator
func ValidateInput(input Validator) error {
	if input == nil {
		return fmt.Errorf("input cannot be nil")
	}
	return input.Validate()
}

// Validate checks CreateCharacterInput for validity
func (i *CreateCharacterInput) Validate() error {
	if i == nil {
		return fmt.Errorf("CreateCharacterInput cannot be nil")
	}
	name := strings.TrimSpace(i.Config.Bio.Name)
	if name == "" {
		return fmt.Errorf("character name is required")
	}
	if len(name) > 50 {
		return fmt.Errorf("character name cannot exceed 50 characters")
	}

	scores := i.Config.Scores
	for label, v := range map[string]int{
		"STR": scores.STR, "CON": scores.CON, "POW": scores.POW, "DEX": scores.DEX,
		"CHA": scores.CHA, "INT": scores.INT, "SIZ": scores.SIZ, "EDU": scores.EDU,
	} {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", label)
		}
	}
	if scores.CON+scores.SIZ == 0 {
		return fmt.Errorf("CON and SIZ cannot both be zero")
	}
	return nil
}

func (i *SkillRollInput) Validate() error {
	if i == nil {
		return fmt.Errorf("SkillRollInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	if strings.TrimSpace(i.Skill) == "" {
		return fmt.Errorf("skill is required")
	}
	if i.Options.Difficulty < 0 {
		return fmt.Errorf("difficulty cannot be negative")
	}
	return nil
}

func (i *TakeDamageInput) Validate() error {
	if i == nil {
		return fmt.Errorf("TakeDamageInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	if i.Amount < 0 {
		return fmt.Errorf("damage cannot be negative")
	}
	return nil
}

func (i *HealDamageInput) Validate() error {
	if i == nil {
		return fmt.Errorf("HealDamageInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	return nil
}

func (i *SanityRollInput) Validate() error {
	if i == nil {
		return fmt.Errorf("SanityRollInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	if strings.TrimSpace(i.LossOnFail) == "" {
		return fmt.Errorf("loss on failure is required")
	}
	if negativeAmount(i.LossOnSuccess) || negativeAmount(i.LossOnFail) {
		return fmt.Errorf("sanity loss cannot be negative")
	}
	return nil
}

func (i *OpposedRollInput) Validate() error {
	if i == nil {
		return fmt.Errorf("OpposedRollInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	if strings.TrimSpace(i.Skill) == "" {
		return fmt.Errorf("skill is required")
	}
	switch i.Method {
	case OpposedHighest, OpposedSubtraction, OpposedResistanceTable, OpposedResistance:
	default:
		return fmt.Errorf("unknown opposed method %q", i.Method)
	}
	return i.Opponent.validate()
}

func (o OpponentInput) validate() error {
	if o.CharacterID == "" && o.Chance < 0 {
		return fmt.Errorf("opponent chance cannot be negative")
	}
	return nil
}

func (i *POWCheckInput) Validate() error {
	if i == nil {
		return fmt.Errorf("POWCheckInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	return i.Opponent.validate()
}

func (i *CharacteristicRollInput) Validate() error {
	if i == nil {
		return fmt.Errorf("CharacteristicRollInput cannot be nil")
	}
	if strings.TrimSpace(i.CharacterID) == "" {
		return fmt.Errorf("character ID is required")
	}
	if strings.TrimSpace(i.Characteristic) == "" {
		return fmt.Errorf("characteristic is required")
	}
	if i.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive")
	}
	return nil
}

func negativeAmount(amount string) bool {
	return strings.HasPrefix(strings.TrimSpace(amount), "-")
}
