package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
)

// Repository defines the interface for character sheet persistence
type Repository interface {
	// Create stores a new sheet. An empty ID is filled in.
	Create(ctx context.Context, sheet character.Sheet) error

	// Get retrieves a sheet by ID
	Get(ctx context.Context, id string) (character.Sheet, error)

	// ListByOwner retrieves all sheets for a specific owner
	ListByOwner(ctx context.Context, ownerID string) ([]character.Sheet, error)

	// ListByCampaign retrieves all sheets in a campaign
	ListByCampaign(ctx context.Context, campaignID string) ([]character.Sheet, error)

	// Update replaces an existing sheet
	Update(ctx context.Context, sheet character.Sheet) error

	// Delete removes a sheet
	Delete(ctx context.Context, id string) error
}
