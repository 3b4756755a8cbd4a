// Package records converts character sheets to and from their stored JSON
// form. Records are validated against an embedded schema before decoding and
// variants are looked up in a Registry.
package records

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
)

// CurrentVersion is written into every record
const CurrentVersion = 1

// SkillRecord is the stored form of one skill
type SkillRecord struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Category   shared.Category `json:"category"`
	Chance     int             `json:"chance"`
	Experience string          `json:"experience"`
	Improvable bool            `json:"improvable"`
	Extension  json.RawMessage `json:"extension,omitempty"`
}

type DerivedRecord struct {
	DamageModifier             string                  `json:"damage_modifier"`
	MaxHitPoints               int                     `json:"max_hit_points"`
	MajorWoundLevel            int                     `json:"major_wound_level"`
	MaxHitPointsByLocation     map[shared.Location]int `json:"max_hit_points_by_location"`
	TemporaryInsanityThreshold int                     `json:"temporary_insanity_threshold"`
	MaxPowerPoints             int                     `json:"max_power_points"`
}

type HealthRecord struct {
	Damage         int                     `json:"damage"`
	LocationDamage map[shared.Location]int `json:"location_damage"`
	MinorWound     bool                    `json:"minor_wound"`
	MajorWound     bool                    `json:"major_wound"`
	FatalWound     bool                    `json:"fatal_wound"`
	Fatigue        int                     `json:"fatigue"`
	PowerPoints    int                     `json:"power_points"`
}

type SanityRecord struct {
	Sanity            int  `json:"sanity"`
	RecentLoss        int  `json:"recent_loss"`
	TemporarilyInsane bool `json:"temporarily_insane"`
	PermanentlyInsane bool `json:"permanently_insane"`
}

// CharacterRecord is the stored form of a character sheet
type CharacterRecord struct {
	Version    int            `json:"version"`
	Kind       character.Kind `json:"kind"`
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	CampaignID string         `json:"campaign_id"`

	Biography       character.Biography `json:"biography"`
	Characteristics shared.Scores       `json:"characteristics"`
	Rules           character.Rules     `json:"rules"`
	Powers          character.Powers    `json:"powers"`
	Equipment       character.Equipment `json:"equipment"`

	MaxSpeciesPOW  int    `json:"max_species_pow"`
	MinSpeciesPOW  int    `json:"min_species_pow"`
	POWImprovement string `json:"pow_improvement"`

	Skills          map[string]SkillRecord   `json:"skills"`
	CategoryBonuses shared.CategoryModifiers `json:"category_bonuses"`
	Derived         DerivedRecord            `json:"derived"`
	Health          HealthRecord             `json:"health"`
	Sanity          SanityRecord             `json:"sanity"`

	Extension json.RawMessage `json:"extension,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
