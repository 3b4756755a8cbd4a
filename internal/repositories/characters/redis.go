package characters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/uuid"
)

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	codec         codec
	now           func() time.Time
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	// Registry resolves character kinds. Defaults to records.DefaultRegistry.
	Registry *records.Registry
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.NewCharacterIDGenerator()
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		codec:         newCodec(cfg.Registry),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// ownerCharactersKey generates the Redis key for an owner's character set
func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

// campaignCharactersKey generates the Redis key for a campaign's character set
func (r *redisRepo) campaignCharactersKey(campaignID string) string {
	return fmt.Sprintf("campaign:%s:characters", campaignID)
}

func (r *redisRepo) addToIndexes(ctx context.Context, pipe redis.Pipeliner, char *character.Character) {
	if char.OwnerID != "" {
		pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	}
	if char.CampaignID != "" {
		pipe.SAdd(ctx, r.campaignCharactersKey(char.CampaignID), char.ID)
	}
}

func (r *redisRepo) removeFromIndexes(ctx context.Context, pipe redis.Pipeliner, id, ownerID, campaignID string) {
	if ownerID != "" {
		pipe.SRem(ctx, r.ownerCharactersKey(ownerID), id)
	}
	if campaignID != "" {
		pipe.SRem(ctx, r.campaignCharactersKey(campaignID), id)
	}
}

// Create stores a new sheet
func (r *redisRepo) Create(ctx context.Context, sheet character.Sheet) error {
	char, err := validateSheet(sheet)
	if err != nil {
		return err
	}
	if char.ID == "" {
		char.ID = r.uuidGenerator.New()
	}

	// Check if character already exists
	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return brperr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.CreatedAt = r.now()
	char.UpdatedAt = char.CreatedAt
	_, data, err := r.codec.encode(sheet)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(data), 0)
	r.addToIndexes(ctx, pipe, char)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

func (r *redisRepo) getRecord(ctx context.Context, id string) (*records.CharacterRecord, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, brperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	rec, err := records.UnmarshalRecord(data)
	if err != nil {
		return nil, brperr.Wrapf(err, "stored character %s is invalid", id)
	}
	return rec, nil
}

// Get retrieves a sheet by ID
func (r *redisRepo) Get(ctx context.Context, id string) (character.Sheet, error) {
	if id == "" {
		return nil, brperr.InvalidArgument("character ID is required")
	}

	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.codec.registry.Decode(rec)
}

// ListByOwner retrieves all sheets for a specific owner
func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]character.Sheet, error) {
	if ownerID == "" {
		return nil, brperr.InvalidArgument("owner ID is required")
	}
	return r.listIndex(ctx, r.ownerCharactersKey(ownerID))
}

// ListByCampaign retrieves all sheets in a campaign
func (r *redisRepo) ListByCampaign(ctx context.Context, campaignID string) ([]character.Sheet, error) {
	if campaignID == "" {
		return nil, brperr.InvalidArgument("campaign ID is required")
	}
	return r.listIndex(ctx, r.campaignCharactersKey(campaignID))
}

// listIndex loads every member of an index set. IDs whose sheet has gone
// missing are skipped.
func (r *redisRepo) listIndex(ctx context.Context, indexKey string) ([]character.Sheet, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	sheets := make([]character.Sheet, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			sheet, err := r.Get(gctx, id)
			if brperr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			sheets[i] = sheet
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]character.Sheet, 0, len(sheets))
	for _, sheet := range sheets {
		if sheet != nil {
			result = append(result, sheet)
		}
	}
	sortSheets(result)
	return result, nil
}

// Update replaces an existing sheet
func (r *redisRepo) Update(ctx context.Context, sheet character.Sheet) error {
	char, err := validateSheet(sheet)
	if err != nil {
		return err
	}
	if char.ID == "" {
		return brperr.InvalidArgument("character ID is required")
	}

	// Load the existing record to preserve the creation time and old indexes
	existing, err := r.getRecord(ctx, char.ID)
	if err != nil {
		return err
	}

	char.CreatedAt = existing.CreatedAt
	char.UpdatedAt = r.now()
	_, data, err := r.codec.encode(sheet)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(data), 0)

	// If owner or campaign changed, update indexes
	if existing.OwnerID != char.OwnerID || existing.CampaignID != char.CampaignID {
		r.removeFromIndexes(ctx, pipe, char.ID, existing.OwnerID, existing.CampaignID)
		r.addToIndexes(ctx, pipe, char)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Delete removes a sheet
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return brperr.InvalidArgument("character ID is required")
	}

	// Get record to find owner and campaign for cleanup
	existing, err := r.getRecord(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	r.removeFromIndexes(ctx, pipe, id, existing.OwnerID, existing.CampaignID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}
