package characters

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/uuid"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteRepoConfig holds configuration for the SQLite repository
type SQLiteRepoConfig struct {
	// Path to the database file. ":memory:" opens a private in-memory database.
	Path          string
	UUIDGenerator uuid.Generator
	Registry      *records.Registry
}

// SQLiteRepository persists sheets in a single SQLite table
type SQLiteRepository struct {
	db            *sql.DB
	uuidGenerator uuid.Generator
	codec         codec
}

// OpenSQLite opens the database and applies embedded migrations
func OpenSQLite(cfg *SQLiteRepoConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, brperr.InvalidArgument("SQLiteRepoConfig cannot be nil")
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, brperr.InvalidArgument("sqlite path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.NewCharacterIDGenerator()
	}
	return &SQLiteRepository{db: db, uuidGenerator: gen, codec: newCodec(cfg.Registry)}, nil
}

func applyMigrations(db *sql.DB) error {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

// Create stores a new sheet
func (r *SQLiteRepository) Create(ctx context.Context, sheet character.Sheet) error {
	char, err := validateSheet(sheet)
	if err != nil {
		return err
	}
	if char.ID == "" {
		char.ID = r.uuidGenerator.New()
	}

	char.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	char.UpdatedAt = char.CreatedAt
	rec, data, err := r.codec.encode(sheet)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO characters (id, owner_id, campaign_id, kind, name, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, rec.CampaignID, string(rec.Kind), rec.Biography.Name, data,
		rec.CreatedAt.UnixMilli(), rec.UpdatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return brperr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// Get retrieves a sheet by ID
func (r *SQLiteRepository) Get(ctx context.Context, id string) (character.Sheet, error) {
	if id == "" {
		return nil, brperr.InvalidArgument("character ID is required")
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, brperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return r.codec.decode(data)
}

// ListByOwner retrieves all sheets for a specific owner
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]character.Sheet, error) {
	if ownerID == "" {
		return nil, brperr.InvalidArgument("owner ID is required")
	}
	return r.query(ctx, `SELECT data FROM characters WHERE owner_id = ? ORDER BY name, id`, ownerID)
}

// ListByCampaign retrieves all sheets in a campaign
func (r *SQLiteRepository) ListByCampaign(ctx context.Context, campaignID string) ([]character.Sheet, error) {
	if campaignID == "" {
		return nil, brperr.InvalidArgument("campaign ID is required")
	}
	return r.query(ctx, `SELECT data FROM characters WHERE campaign_id = ? ORDER BY name, id`, campaignID)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]character.Sheet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	result := make([]character.Sheet, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		sheet, err := r.codec.decode(data)
		if err != nil {
			return nil, err
		}
		result = append(result, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return result, nil
}

// Update replaces an existing sheet, keeping its creation time
func (r *SQLiteRepository) Update(ctx context.Context, sheet character.Sheet) error {
	char, err := validateSheet(sheet)
	if err != nil {
		return err
	}
	if char.ID == "" {
		return brperr.InvalidArgument("character ID is required")
	}

	var createdAt int64
	err = r.db.QueryRowContext(ctx, `SELECT created_at FROM characters WHERE id = ?`, char.ID).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return brperr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get existing character: %w", err)
	}

	char.CreatedAt = time.UnixMilli(createdAt).UTC()
	char.UpdatedAt = time.Now().UTC()
	rec, data, err := r.codec.encode(sheet)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE characters
		 SET owner_id = ?, campaign_id = ?, kind = ?, name = ?, data = ?, updated_at = ?
		 WHERE id = ?`,
		rec.OwnerID, rec.CampaignID, string(rec.Kind), rec.Biography.Name, data,
		rec.UpdatedAt.UnixMilli(), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Delete removes a sheet
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return brperr.InvalidArgument("character ID is required")
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if n == 0 {
		return brperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	return nil
}
