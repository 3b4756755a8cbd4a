package shared

import (
	"strings"

	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// Characteristic names one of the eight rolled characteristics
type Characteristic string

// Characteristics lists every characteristic that can be rolled against
var Characteristics = []Characteristic{
	CharacteristicStrength,
	CharacteristicConstitution,
	CharacteristicPower,
	CharacteristicDexterity,
	CharacteristicCharisma,
	CharacteristicIntelligence,
	CharacteristicSize,
	CharacteristicEducation,
}

const (
	CharacteristicNone         Characteristic = ""
	CharacteristicStrength     Characteristic = "STR"
	CharacteristicConstitution Characteristic = "CON"
	CharacteristicPower        Characteristic = "POW"
	CharacteristicDexterity    Characteristic = "DEX"
	CharacteristicCharisma     Characteristic = "CHA"
	CharacteristicIntelligence Characteristic = "INT"
	CharacteristicSize         Characteristic = "SIZ"
	CharacteristicEducation    Characteristic = "EDU"
)

// ParseCharacteristic accepts a characteristic abbreviation in any case
func ParseCharacteristic(name string) (Characteristic, error) {
	candidate := Characteristic(strings.ToUpper(strings.TrimSpace(name)))
	for _, c := range Characteristics {
		if c == candidate {
			return c, nil
		}
	}
	return CharacteristicNone, brperr.Validationf("characteristic %s not a valid choice", name).
		WithMeta("characteristic", name)
}

// Scores holds a character's characteristic values. MOV is derived and never
// rolled against.
type Scores struct {
	STR int `json:"STR"`
	CON int `json:"CON"`
	POW int `json:"POW"`
	DEX int `json:"DEX"`
	CHA int `json:"CHA"`
	INT int `json:"INT"`
	SIZ int `json:"SIZ"`
	EDU int `json:"EDU"`
	MOV int `json:"MOV"`
}

// DefaultScores is an average human
func DefaultScores() Scores {
	return Scores{STR: 10, CON: 10, POW: 10, DEX: 10, CHA: 10, INT: 10, SIZ: 10, EDU: 10, MOV: 10}
}

// Get returns the value of c
func (s Scores) Get(c Characteristic) (int, error) {
	switch c {
	case CharacteristicStrength:
		return s.STR, nil
	case CharacteristicConstitution:
		return s.CON, nil
	case CharacteristicPower:
		return s.POW, nil
	case CharacteristicDexterity:
		return s.DEX, nil
	case CharacteristicCharisma:
		return s.CHA, nil
	case CharacteristicIntelligence:
		return s.INT, nil
	case CharacteristicSize:
		return s.SIZ, nil
	case CharacteristicEducation:
		return s.EDU, nil
	}
	return 0, brperr.Validationf("characteristic %s not a valid choice", string(c)).
		WithMeta("characteristic", string(c))
}
