package repository

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out ids that are unique within the table they are
// checked against.
type IDGenerator struct {
	source func() string
}

// NewIDGenerator wraps source; a nil source uses random UUIDs.
func NewIDGenerator(source func() string) *IDGenerator {
	if source == nil {
		source = uuid.NewString
	}
	return &IDGenerator{source: source}
}

const maxIDAttempts = 16

// Next returns prefix+id for the first candidate that taken rejects.
// Callers must hold the store write lock so the check and insert are atomic.
func (g *IDGenerator) Next(prefix string, taken func(string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := prefix + g.source()
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique %q id after %d attempts", prefix, maxIDAttempts)
}
