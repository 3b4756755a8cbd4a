package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/variants/raven"
)

// CreateTestConfig returns a character config with average scores
func CreateTestConfig(id, ownerID, campaignID, name string) character.Config {
	return character.Config{
		ID:         id,
		OwnerID:    ownerID,
		CampaignID: campaignID,
		Bio:        character.Biography{Name: name, PrimaryLanguage: "English"},
		Scores:     shared.DefaultScores(),
		Rules:      character.DefaultRules(),
		Equipment: character.Equipment{
			Armor:           "Leather",
			ArmorProtection: "1D2",
			PrimaryWeapon:   "1D6",
		},
	}
}

// CreateTestCharacter creates a basic character sheet
func CreateTestCharacter(t *testing.T, id, ownerID, campaignID, name string) *character.Character {
	t.Helper()
	c, err := character.New(CreateTestConfig(id, ownerID, campaignID, name))
	require.NoError(t, err)
	return c
}

// CreateTestRavenCharacter creates a character of the raven setting
func CreateTestRavenCharacter(t *testing.T, id, ownerID, campaignID, name string) *raven.Character {
	t.Helper()
	c, err := raven.New(CreateTestConfig(id, ownerID, campaignID, name))
	require.NoError(t, err)
	return c
}
