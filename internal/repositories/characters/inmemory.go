package characters

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/uuid"
)

type storedSheet struct {
	ownerID    string
	campaignID string
	data       []byte
}

// InMemoryRepository keeps encoded sheets in a map.
// Useful for testing and development
type InMemoryRepository struct {
	mu            sync.RWMutex
	sheets        map[string]storedSheet
	codec         codec
	uuidGenerator uuid.Generator
}

// NewInMemoryRepository creates a new in-memory repository. A nil registry
// means records.DefaultRegistry.
func NewInMemoryRepository(reg *records.Registry) *InMemoryRepository {
	return &InMemoryRepository{
		sheets:        make(map[string]storedSheet),
		codec:         newCodec(reg),
		uuidGenerator: uuid.NewCharacterIDGenerator(),
	}
}

// Create stores a new sheet
func (r *InMemoryRepository) Create(ctx context.Context, sheet character.Sheet) error {
	char, err := validateSheet(sheet)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if char.ID == "" {
		char.ID = r.uuidGenerator.New()
	}
	if _, exists := r.sheets[char.ID]; exists {
		return brperr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.CreatedAt = time.Now().UTC()
	char.UpdatedAt = char.CreatedAt
	_, data, err := r.codec.encode(sheet)
	if err != nil {
		return err
	}

	r.sheets[char.ID] = storedSheet{ownerID: char.OwnerID, campaignID: char.CampaignID, data: data}
	return nil
}

// Get retrieves a sheet by ID. Every call decodes a fresh copy.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (character.Sheet, error) {
	if id == "" {
		return nil, brperr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	stored, exists := r.sheets[id]
	r.mu.RUnlock()

	if !exists {
		return nil, brperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	return r.codec.decode(stored.data)
}

// ListByOwner retrieves all sheets for a specific owner
func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]character.Sheet, error) {
	if ownerID == "" {
		return nil, brperr.InvalidArgument("owner ID is required")
	}
	return r.list(func(s storedSheet) bool { return s.ownerID == ownerID })
}

// ListByCampaign retrieves all sheets in a campaign
func (r *InMemoryRepository) ListByCampaign(ctx context.Context, campaignID string) ([]character.Sheet, error) {
	if campaignID == "" {
		return nil, brperr.InvalidArgument("campaign ID is required")
	}
	return r.list(func(s storedSheet) bool { return s.campaignID == campaignID })
}

func (r *InMemoryRepository) list(match func(storedSheet) bool) ([]character.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]character.Sheet, 0)
	for _, stored := range r.sheets {
		if !match(stored) {
			continue
		}
		sheet, err := r.codec.decode(stored.data)
		if err != nil {
			return nil, err
		}
		result = append(result, sheet)
	}
	sortSheets(result)
	return result, nil
}

// Update replaces an existing sheet, keeping its creation time
func (r *InMemoryRepository) Update(ctx context.Context, sheet character.Sheet) error {
	char, err := validateSheet(sheet)
	if err != nil {
		return err
	}
	if char.ID == "" {
		return brperr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.sheets[char.ID]
	if !exists {
		return brperr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}
	prev, err := r.codec.decode(existing.data)
	if err != nil {
		return err
	}

	char.CreatedAt = prev.Base().CreatedAt
	char.UpdatedAt = time.Now().UTC()
	_, data, err := r.codec.encode(sheet)
	if err != nil {
		return err
	}

	r.sheets[char.ID] = storedSheet{ownerID: char.OwnerID, campaignID: char.CampaignID, data: data}
	return nil
}

// Delete removes a sheet
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return brperr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sheets[id]; !exists {
		return brperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	delete(r.sheets, id)
	return nil
}
