// Package guid assigns store-unique identifiers to new deals.
package guid

import (
	apperrors "dagensfynd/dealworker/pkg/errors"

	"github.com/google/uuid"
)

// maxAttempts bounds the regenerate-on-collision loop. A UUIDv4 collision
// is vanishingly unlikely, so exhaustion indicates a broken index.
const maxAttempts = 5

// Index is the id-space a candidate token is checked against
type Index interface {
	HasGUID(guid string) (bool, error)
}

// Generator produces random unique tokens for new deals
type Generator struct{}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns a canonical UUIDv4 string that is not present in the index.
// Candidates colliding with an existing id are regenerated up to maxAttempts
// times; exhaustion returns a distinct id_exhausted error.
func (g *Generator) Next(index Index) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate := uuid.NewString()

		taken, err := index.HasGUID(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperrors.NewIDExhausted("guid", maxAttempts)
}
