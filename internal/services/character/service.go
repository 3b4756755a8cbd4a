// Package character runs rule calls against stored character sheets. Every
// state changing call loads the sheet, applies the rule, persists the result
// and then emits an event.
package character

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/events"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	characterRepo "github.com/KirkDiggler/brp-sheet/internal/repositories/characters"
)

// Repository is an alias for the character repository interface
type Repository = characterRepo.Repository

// Service defines the character service interface
type Service interface {
	// CreateCharacter builds and stores a new sheet
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (character.Sheet, error)

	// ImportCharacter stores an existing sheet, replacing one with the same ID
	ImportCharacter(ctx context.Context, sheet character.Sheet) error

	GetCharacter(ctx context.Context, characterID string) (character.Sheet, error)

	// ListCharacters lists by campaign when one is given, else by owner
	ListCharacters(ctx context.Context, input *ListCharactersInput) ([]character.Sheet, error)

	DeleteCharacter(ctx context.Context, characterID string) error

	SkillRoll(ctx context.Context, input *SkillRollInput) (*skill.Result, error)

	WeaponDamage(ctx context.Context, characterID string, slot character.WeaponSlot) (*character.WeaponDamage, error)

	TakeDamage(ctx context.Context, input *TakeDamageInput) (*character.Condition, error)

	HealDamage(ctx context.Context, input *HealDamageInput) (character.Sheet, error)

	SanityRoll(ctx context.Context, input *SanityRollInput) (*character.SanityResult, error)

	// RecoverSanity returns the new sanity
	RecoverSanity(ctx context.Context, characterID, amount string) (int, error)

	// ModifyFatigue returns the new fatigue
	ModifyFatigue(ctx context.Context, characterID string, amount int) (int, error)

	// ResetSanityLoss ends the current episode of sanity loss
	ResetSanityLoss(ctx context.Context, characterID string) error

	// ExperiencePass spends every pending experience check and then any
	// pending POW improvement
	ExperiencePass(ctx context.Context, characterID string) (*ExperienceOutput, error)

	// OpposedRoll contests one of the character's skills. An opponent
	// character is read but never saved.
	OpposedRoll(ctx context.Context, input *OpposedRollInput) (*OpposedRollOutput, error)

	// POWCheck pits Luck against the opponent and marks POW for improvement
	// on a win
	POWCheck(ctx context.Context, input *POWCheckInput) (bool, error)

	// CharacteristicRoll rolls against a multiple of a characteristic
	// without changing the sheet
	CharacteristicRoll(ctx context.Context, input *CharacteristicRollInput) (bool, error)
}

// CreateCharacterInput describes a new sheet
type CreateCharacterInput struct {
	Config character.Config
}

type ListCharactersInput struct {
	OwnerID    string
	CampaignID string
}

type SkillRollInput struct {
	CharacterID string
	Skill       string
	Options     character.SkillRollOptions
}

type TakeDamageInput struct {
	CharacterID string
	Amount      int
	BypassArmor bool
	// Location is empty for general damage
	Location shared.Location
}

type HealDamageInput struct {
	CharacterID string
	Amount      int
	HealWounds  bool
	Location    shared.Location
}

type SanityRollInput struct {
	CharacterID   string
	LossOnSuccess string
	LossOnFail    string
}

// OpposedMethod picks how an opposed roll is resolved
type OpposedMethod string

const (
	OpposedHighest         OpposedMethod = "highest"
	OpposedSubtraction     OpposedMethod = "subtraction"
	OpposedResistanceTable OpposedMethod = "table"
	OpposedResistance      OpposedMethod = "resistance"
)

// OpponentInput is a stored character's skill when CharacterID is set,
// else a flat chance
type OpponentInput struct {
	CharacterID string
	// Skill defaults to the skill being contested, or Luck for a POW check
	Skill  string
	Chance int
}

type OpposedRollInput struct {
	CharacterID string
	Skill       string
	Method      OpposedMethod
	Opponent    OpponentInput
	// Tiebreak settles equal grades under the highest method
	Tiebreak *bool
}

// OpposedRollOutput reports a contest. Mine and Theirs are only set by the
// methods that roll them.
type OpposedRollOutput struct {
	Won    bool
	Mine   *skill.Result
	Theirs *skill.Result
}

type POWCheckInput struct {
	CharacterID string
	Opponent    OpponentInput
}

type CharacteristicRollInput struct {
	CharacterID    string
	Characteristic string
	Multiplier     int
	Advantage      int
	Modifier       int
}

// ExperienceOutput lists the checks that were rolled
type ExperienceOutput struct {
	Improvements []*skill.Improvement
	POWGain      int
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository Repository // Required
	// Registry builds sheets of each kind. Defaults to records.DefaultRegistry.
	Registry *records.Registry
	// Roller defaults to a random roller
	Roller dice.Roller
	Logger *zap.Logger
	// DefaultOwnerID is used when a new sheet has no owner
	DefaultOwnerID string
	// ImprovementDie is used when a new sheet does not set one
	ImprovementDie int
	// Events receives an event after each saved operation. Defaults to a
	// bus that logs every event.
	Events *events.Bus
}

type service struct {
	repository     Repository
	registry       *records.Registry
	roller         dice.Roller
	logger         *zap.Logger
	defaultOwnerID string
	improvementDie int
	events         *events.Bus

	// serializes read-modify-write cycles per character
	locks sync.Map
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:     cfg.Repository,
		registry:       cfg.Registry,
		roller:         cfg.Roller,
		logger:         cfg.Logger,
		defaultOwnerID: cfg.DefaultOwnerID,
		improvementDie: cfg.ImprovementDie,
		events:         cfg.Events,
	}
	if svc.registry == nil {
		svc.registry = records.DefaultRegistry()
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.events == nil {
		svc.events = events.NewBus(svc.logger)
		svc.events.SubscribeAll(events.NewLogListener(svc.logger))
	}
	return svc
}

// emit publishes after the change is saved, so a failing listener is only
// logged
func (s *service) emit(event events.Event) {
	if err := s.events.Emit(event); err != nil {
		s.logger.Warn("event listener failed",
			zap.String("event", string(event.GetType())),
			zap.String("character_id", event.GetCharacterID()),
			zap.Error(err),
		)
	}
}

func (s *service) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// load fetches a sheet and points it at the service roller
func (s *service) load(ctx context.Context, id string) (character.Sheet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, brperr.InvalidArgument("character ID is required")
	}
	sheet, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sheet.Base().WithDiceRoller(s.roller)
	return sheet, nil
}

// mutate runs fn against a locked, loaded sheet and saves the result when
// fn succeeds
func (s *service) mutate(ctx context.Context, id, operation string, fn func(character.Sheet) error) (character.Sheet, error) {
	unlock := s.lock(id)
	defer unlock()

	sheet, err := s.load(ctx, id)
	if err != nil {
		return nil, brperr.Wrap(err, "failed to load character").
			WithMeta("operation", operation)
	}
	if err := fn(sheet); err != nil {
		return nil, brperr.Wrapf(err, "%s failed", operation).
			WithMeta("operation", operation).
			WithMeta("character_id", id)
	}
	if err := s.repository.Update(ctx, sheet); err != nil {
		return nil, brperr.Wrap(err, "failed to save character").
			WithMeta("operation", operation)
	}
	return sheet, nil
}

func (s *service) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (character.Sheet, error) {
	if err := ValidateInput(input); err != nil {
		return nil, brperr.WrapWithCode(err, brperr.CodeInvalidArgument, "invalid character creation input").
			WithMeta("operation", "CreateCharacter")
	}

	cfg := input.Config
	if cfg.OwnerID == "" {
		cfg.OwnerID = s.defaultOwnerID
	}
	if cfg.Rules.ImprovementDie == 0 {
		cfg.Rules.ImprovementDie = s.improvementDie
	}

	sheet, err := s.registry.New(cfg, character.WithRoller(s.roller))
	if err != nil {
		return nil, brperr.Wrap(err, "failed to build character").
			WithMeta("operation", "CreateCharacter")
	}
	if err := s.repository.Create(ctx, sheet); err != nil {
		return nil, brperr.Wrap(err, "failed to store character").
			WithMeta("operation", "CreateCharacter")
	}

	s.emit(&events.CharacterEvent{BaseEvent: events.NewBaseEvent(events.EventTypeCharacterCreated, sheet.Base())})
	return sheet, nil
}

func (s *service) ImportCharacter(ctx context.Context, sheet character.Sheet) error {
	if sheet == nil || sheet.Base() == nil {
		return brperr.InvalidArgument("character cannot be nil")
	}
	c := sheet.Base()
	if c.ID == "" {
		if err := s.repository.Create(ctx, sheet); err != nil {
			return brperr.Wrap(err, "failed to import character")
		}
		s.emit(&events.CharacterEvent{BaseEvent: events.NewBaseEvent(events.EventTypeCharacterImported, c)})
		return nil
	}

	unlock := s.lock(c.ID)
	defer unlock()

	_, err := s.repository.Get(ctx, c.ID)
	switch {
	case brperr.IsNotFound(err):
		err = s.repository.Create(ctx, sheet)
	case err == nil:
		err = s.repository.Update(ctx, sheet)
	}
	if err != nil {
		return brperr.Wrap(err, "failed to import character").
			WithMeta("character_id", c.ID)
	}

	s.emit(&events.CharacterEvent{BaseEvent: events.NewBaseEvent(events.EventTypeCharacterImported, c)})
	return nil
}

func (s *service) GetCharacter(ctx context.Context, characterID string) (character.Sheet, error) {
	return s.load(ctx, characterID)
}

func (s *service) ListCharacters(ctx context.Context, input *ListCharactersInput) ([]character.Sheet, error) {
	if input == nil {
		input = &ListCharactersInput{}
	}
	if input.CampaignID != "" {
		return s.repository.ListByCampaign(ctx, input.CampaignID)
	}
	owner := input.OwnerID
	if owner == "" {
		owner = s.defaultOwnerID
	}
	return s.repository.ListByOwner(ctx, owner)
}

func (s *service) DeleteCharacter(ctx context.Context, characterID string) error {
	if strings.TrimSpace(characterID) == "" {
		return brperr.InvalidArgument("character ID is required")
	}
	unlock := s.lock(characterID)
	defer unlock()

	if err := s.repository.Delete(ctx, characterID); err != nil {
		return err
	}
	s.emit(&events.CharacterEvent{BaseEvent: events.BaseEvent{Type: events.EventTypeCharacterDeleted, CharacterID: characterID}})
	return nil
}
