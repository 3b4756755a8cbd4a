package characters

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/records"
)

// codec turns sheets into the JSON stored by every backend
type codec struct {
	registry *records.Registry
}

func newCodec(reg *records.Registry) codec {
	if reg == nil {
		reg = records.DefaultRegistry()
	}
	return codec{registry: reg}
}

func (c codec) encode(sheet character.Sheet) (*records.CharacterRecord, []byte, error) {
	rec, err := c.registry.Encode(sheet)
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal character: %w", err)
	}
	// a record that could not be loaded back is never written
	if err := records.Validate(data); err != nil {
		return nil, nil, brperr.WrapWithCode(err, brperr.CodeValidation, "refusing to store invalid character").
			WithMeta("character_id", rec.ID)
	}
	return rec, data, nil
}

func (c codec) decode(data []byte) (character.Sheet, error) {
	rec, err := records.UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	return c.registry.Decode(rec)
}

func validateSheet(sheet character.Sheet) (*character.Character, error) {
	if sheet == nil || sheet.Base() == nil {
		return nil, brperr.InvalidArgument("character cannot be nil")
	}
	return sheet.Base(), nil
}

func sortSheets(sheets []character.Sheet) {
	sort.Slice(sheets, func(i, j int) bool {
		a, b := sheets[i].Base(), sheets[j].Base()
		if a.Bio.Name != b.Bio.Name {
			return a.Bio.Name < b.Bio.Name
		}
		return a.ID < b.ID
	})
}
