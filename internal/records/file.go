package records

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

// LoadFile reads a sheet from a JSON file
func (r *Registry) LoadFile(path string, opts ...character.Option) (character.Sheet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, brperr.NotFoundf("character file %s not found", path).WithMeta("path", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}

	sheet, err := r.Unmarshal(data, opts...)
	if err != nil {
		return nil, brperr.Wrapf(err, "failed to load %s", path)
	}
	return sheet, nil
}

// SaveFile writes a sheet to a JSON file, replacing it atomically
func (r *Registry) SaveFile(path string, sheet character.Sheet) error {
	data, err := r.Marshal(sheet)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".brp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write character file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write character file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save character file: %w", err)
	}
	return nil
}
