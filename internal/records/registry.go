package records

import (
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// SkillKindBasic is the kind of the plain skill
const SkillKindBasic = "basic"

// SkillVariant describes how a skill kind is built and stored
type SkillVariant struct {
	Kind    string
	Factory skill.Factory
	// Extension returns the variant payload of s. Optional.
	Extension func(s skill.Skill) (any, error)
	// Restore applies a stored payload to a freshly built skill. Optional.
	Restore func(s skill.Skill, payload json.RawMessage) error
}

// CharacterVariant describes how a character kind is built and stored
type CharacterVariant struct {
	Kind character.Kind
	// SkillKind is the skill variant every skill of this character uses
	SkillKind string
	// Wrap builds the sheet around a restored base character. nil means the
	// base character is the sheet.
	Wrap func(base *character.Character, payload json.RawMessage) (character.Sheet, error)
	// Extension returns the variant payload of the sheet. Optional.
	Extension func(sheet character.Sheet) (any, error)
}

// Registry maps kind names to variants. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	skills     map[string]SkillVariant
	characters map[character.Kind]CharacterVariant
}

func NewRegistry() *Registry {
	return &Registry{
		skills:     make(map[string]SkillVariant),
		characters: make(map[character.Kind]CharacterVariant),
	}
}

// DefaultRegistry knows the basic kinds and the raven setting
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.RegisterSkill(SkillVariant{Kind: SkillKindBasic, Factory: skill.BasicFactory}); err != nil {
		panic(err)
	}
	if err := r.RegisterCharacter(CharacterVariant{Kind: character.KindBasic, SkillKind: SkillKindBasic}); err != nil {
		panic(err)
	}
	if err := registerRaven(r); err != nil {
		panic(err)
	}
	return r
}

// RegisterSkill adds a skill kind
func (r *Registry) RegisterSkill(v SkillVariant) error {
	if v.Kind == "" {
		return brperr.Contractf("skill variant needs a kind")
	}
	if v.Factory == nil {
		return brperr.Contractf("skill variant %s needs a factory", v.Kind).WithMeta("kind", v.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.skills[v.Kind]; exists {
		return brperr.AlreadyExistsf("skill kind %s is already registered", v.Kind).WithMeta("kind", v.Kind)
	}
	r.skills[v.Kind] = v
	return nil
}

// RegisterCharacter adds a character kind. Its skill kind must already be
// registered.
func (r *Registry) RegisterCharacter(v CharacterVariant) error {
	if v.Kind == "" {
		return brperr.Contractf("character variant needs a kind")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.skills[v.SkillKind]; !ok {
		return brperr.Contractf("character kind %s uses unknown skill kind %q", v.Kind, v.SkillKind).
			WithMeta("kind", string(v.Kind))
	}
	if _, exists := r.characters[v.Kind]; exists {
		return brperr.AlreadyExistsf("character kind %s is already registered", v.Kind).
			WithMeta("kind", string(v.Kind))
	}
	r.characters[v.Kind] = v
	return nil
}

// Skill returns the variant for kind
func (r *Registry) Skill(kind string) (SkillVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.skills[kind]
	if !ok {
		return SkillVariant{}, brperr.Contractf("unknown skill kind %q", kind).WithMeta("kind", kind)
	}
	return v, nil
}

// Character returns the variant for kind
func (r *Registry) Character(kind character.Kind) (CharacterVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.characters[kind]
	if !ok {
		return CharacterVariant{}, brperr.Contractf("unknown character kind %q", kind).
			WithMeta("kind", string(kind))
	}
	return v, nil
}

// SkillFactory returns the skill factory used by characters of kind
func (r *Registry) SkillFactory(kind character.Kind) (skill.Factory, error) {
	cv, err := r.Character(kind)
	if err != nil {
		return nil, err
	}
	sv, err := r.Skill(cv.SkillKind)
	if err != nil {
		return nil, err
	}
	return sv.Factory, nil
}

// Kinds lists the registered character kinds
func (r *Registry) Kinds() []character.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]character.Kind, 0, len(r.characters))
	for kind := range r.characters {
		kinds = append(kinds, kind)
	}
	return kinds
}

// New builds a fresh sheet of cfg.Kind, defaulting to the basic kind
func (r *Registry) New(cfg character.Config, opts ...character.Option) (character.Sheet, error) {
	if cfg.Kind == "" {
		cfg.Kind = character.KindBasic
	}
	cv, err := r.Character(cfg.Kind)
	if err != nil {
		return nil, err
	}
	sv, err := r.Skill(cv.SkillKind)
	if err != nil {
		return nil, err
	}

	opts = append([]character.Option{character.WithSkillFactory(sv.Factory)}, opts...)
	base, err := character.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if cv.Wrap == nil {
		return base, nil
	}
	return cv.Wrap(base, nil)
}
