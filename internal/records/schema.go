package records

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

//go:embed schema/character.schema.json
var characterSchemaJSON string

const characterSchemaURL = "character.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func characterSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(characterSchemaURL, characterSchemaJSON)
	})
	return schema, schemaErr
}

// Validate checks raw record JSON against the character schema
func Validate(data []byte) error {
	s, err := characterSchema()
	if err != nil {
		return brperr.WrapWithCode(err, brperr.CodeInternal, "failed to compile character schema")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return brperr.WrapWithCode(err, brperr.CodeParse, "character record is not valid JSON")
	}
	if err := s.Validate(doc); err != nil {
		return brperr.WrapWithCode(err, brperr.CodeParse, "character record does not match schema")
	}
	return nil
}
