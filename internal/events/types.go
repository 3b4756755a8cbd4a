package events

import (
	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
)

// EventType represents the type of sheet event
type EventType string

const (
	EventTypeCharacterCreated  EventType = "character.created"
	EventTypeCharacterImported EventType = "character.imported"
	EventTypeCharacterDeleted  EventType = "character.deleted"
	EventTypeSkillRolled       EventType = "skill.rolled"
	EventTypeWeaponRolled      EventType = "weapon.rolled"
	EventTypeDamageTaken       EventType = "damage.taken"
	EventTypeDamageHealed      EventType = "damage.healed"
	EventTypeSanityRolled      EventType = "sanity.rolled"
	EventTypeSanityRecovered   EventType = "sanity.recovered"
	EventTypeSanityReset       EventType = "sanity.reset"
	EventTypeFatigueChanged    EventType = "fatigue.changed"
	EventTypeExperienceSpent   EventType = "experience.spent"
	EventTypeOpposedRolled     EventType = "opposed.rolled"
	EventTypePOWChecked        EventType = "pow.checked"
	EventTypeCharacteristic    EventType = "characteristic.rolled"
)

// AllEventTypes lists every type the service emits
var AllEventTypes = []EventType{
	EventTypeCharacterCreated,
	EventTypeCharacterImported,
	EventTypeCharacterDeleted,
	EventTypeSkillRolled,
	EventTypeWeaponRolled,
	EventTypeDamageTaken,
	EventTypeDamageHealed,
	EventTypeSanityRolled,
	EventTypeSanityRecovered,
	EventTypeSanityReset,
	EventTypeFatigueChanged,
	EventTypeExperienceSpent,
	EventTypeOpposedRolled,
	EventTypePOWChecked,
	EventTypeCharacteristic,
}

// Event is emitted after a sheet operation has been saved. Cancelling an
// event stops it reaching lower priority listeners; it never undoes the
// operation.
type Event interface {
	GetType() EventType
	GetCharacterID() string
	// GetCharacter is the saved sheet, nil for deletions
	GetCharacter() *character.Character
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides the common implementation for all events
type BaseEvent struct {
	Type        EventType
	CharacterID string
	Character   *character.Character
	Cancelled   bool
}

func (e *BaseEvent) GetType() EventType                 { return e.Type }
func (e *BaseEvent) GetCharacterID() string             { return e.CharacterID }
func (e *BaseEvent) GetCharacter() *character.Character { return e.Character }
func (e *BaseEvent) IsCancelled() bool                  { return e.Cancelled }
func (e *BaseEvent) Cancel()                            { e.Cancelled = true }

// NewBaseEvent fills the common fields from a sheet
func NewBaseEvent(eventType EventType, c *character.Character) BaseEvent {
	e := BaseEvent{Type: eventType, Character: c}
	if c != nil {
		e.CharacterID = c.ID
	}
	return e
}

// CharacterEvent covers creation, import and deletion
type CharacterEvent struct {
	BaseEvent
}

type SkillRolledEvent struct {
	BaseEvent
	Skill  string
	Result *skill.Result
}

type WeaponRolledEvent struct {
	BaseEvent
	Slot   character.WeaponSlot
	Damage *character.WeaponDamage
}

type DamageTakenEvent struct {
	BaseEvent
	Amount      int
	BypassArmor bool
	Location    shared.Location
	Condition   *character.Condition
}

type DamageHealedEvent struct {
	BaseEvent
	Amount     int
	HealWounds bool
	Location   shared.Location
}

type SanityRolledEvent struct {
	BaseEvent
	Result *character.SanityResult
}

type SanityRecoveredEvent struct {
	BaseEvent
	Gained int
}

// SanityResetEvent carries the episode loss that was cleared
type SanityResetEvent struct {
	BaseEvent
	Cleared int
}

type FatigueChangedEvent struct {
	BaseEvent
	Amount int
}

type ExperienceSpentEvent struct {
	BaseEvent
	Improvements []*skill.Improvement
	POWGain      int
}

type OpposedRolledEvent struct {
	BaseEvent
	Skill  string
	Method string
	// OpponentID is empty when the opponent was a flat chance
	OpponentID string
	Won        bool
	Mine       *skill.Result
	Theirs     *skill.Result
}

type POWCheckedEvent struct {
	BaseEvent
	OpponentID string
	Won        bool
}

type CharacteristicRolledEvent struct {
	BaseEvent
	Characteristic string
	Multiplier     int
	Success        bool
}
