package token

import (
	"io"

	"github.com/google/uuid"
)

// UUIDGenerator produces random (version 4) UUID strings.
type UUIDGenerator struct {
	entropy io.Reader
}

// NewUUID creates a UUIDGenerator.
func NewUUID(opts ...Option) *UUIDGenerator {
	o := buildOptions(opts)
	return &UUIDGenerator{entropy: o.entropy}
}

// Generate returns a new UUID token such as
// "9b2c1c8e-4f0a-4d7e-9a51-3f6b2f0c7d11".
func (g *UUIDGenerator) Generate() (Token, error) {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewRandomFromReader(g.entropy)
	} else {
		id, err = uuid.NewRandom()
	}
	if err != nil {
		return "", exhausted(err)
	}
	return Token(id.String()), nil
}
