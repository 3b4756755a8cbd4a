// uuid simple generator that allows mocking
package uuid

//go:generate mockgen -destination=mocks/mock_generator.go -package=mocks -source=uuid.go

import (
	"github.com/google/uuid"
)

// CharacterIDPrefix marks generated character sheet IDs
const CharacterIDPrefix = "chr_"

// Generator is an interface for generating UUIDs
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements the Generator interface using Google's UUID package
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// PrefixedGenerator prepends a fixed prefix to IDs from another generator
type PrefixedGenerator struct {
	Prefix string
	Base   Generator
}

func (g *PrefixedGenerator) New() string {
	return g.Prefix + g.Base.New()
}

// NewCharacterIDGenerator returns the generator used for new sheets
func NewCharacterIDGenerator() *PrefixedGenerator {
	return &PrefixedGenerator{Prefix: CharacterIDPrefix, Base: NewGoogleUUIDGenerator()}
}
