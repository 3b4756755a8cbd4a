package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/brp-sheet/internal/config"
	"github.com/KirkDiggler/brp-sheet/internal/dice"
	"github.com/KirkDiggler/brp-sheet/internal/events"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/repositories/characters"
	characterService "github.com/KirkDiggler/brp-sheet/internal/services/character"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	Registry         *records.Registry
	// Events carries every saved operation; a log listener is subscribed
	Events *events.Bus

	closers []func() error
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Config *config.Config
	Logger *zap.Logger
	// CharacterRepository overrides the backend selected by Config
	CharacterRepository characters.Repository
	// Roller overrides the roller selected by Config
	Roller dice.Roller
}

// NewProvider connects the configured storage and builds every service
func NewProvider(ctx context.Context, cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("provider config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Provider{
		Registry: records.DefaultRegistry(),
		Events:   events.NewBus(logger),
	}
	p.Events.SubscribeAll(events.NewLogListener(logger))

	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		var err error
		if charRepo, err = p.openRepository(ctx, cfg.Config, logger); err != nil {
			return nil, err
		}
	}

	roller := cfg.Roller
	if roller == nil {
		if seed := cfg.Config.Rules.DiceSeed; seed != nil {
			logger.Info("using seeded dice", zap.Int64("seed", *seed))
			roller = dice.NewRandomRollerWithSource(dice.NewSeededSource(*seed))
		} else {
			roller = dice.NewRandomRoller()
		}
	}

	p.CharacterService = characterService.NewService(&characterService.ServiceConfig{
		Repository:     charRepo,
		Registry:       p.Registry,
		Roller:         dice.NewLoggedRoller(roller, logger),
		Logger:         logger,
		DefaultOwnerID: cfg.Config.OwnerID,
		ImprovementDie: cfg.Config.Rules.ImprovementDie,
		Events:         p.Events,
	})
	return p, nil
}

func (p *Provider) openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (characters.Repository, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if cfg.Redis.DB > 0 {
			opts.DB = cfg.Redis.DB
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		p.closers = append(p.closers, client.Close)
		logger.Debug("using Redis for persistence", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
		return characters.NewRedis(client, p.Registry), nil

	case config.StorageSQLite:
		repo, err := characters.OpenSQLite(&characters.SQLiteRepoConfig{
			Path:     cfg.SQLite.Path,
			Registry: p.Registry,
		})
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, repo.Close)
		logger.Debug("using SQLite for persistence", zap.String("path", cfg.SQLite.Path))
		return repo, nil

	default:
		logger.Debug("using in-memory repositories")
		return characters.NewInMemoryRepository(p.Registry), nil
	}
}

// Close releases storage connections
func (p *Provider) Close() error {
	var firstErr error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
