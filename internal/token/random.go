package token

import (
	"crypto/rand"
	"encoding/base64"
	"io"
)

// RandomLength is the number of random bytes in a RandomGenerator token.
const RandomLength = 16

// RandomGenerator produces base64 RawURL encoded random bytes.
type RandomGenerator struct {
	entropy io.Reader
}

// NewRandom creates a RandomGenerator.
func NewRandom(opts ...Option) *RandomGenerator {
	o := buildOptions(opts)
	src := o.entropy
	if src == nil {
		src = rand.Reader
	}
	return &RandomGenerator{entropy: src}
}

// Generate returns a new 22 character token.
func (g *RandomGenerator) Generate() (Token, error) {
	buf := make([]byte, RandomLength)
	if _, err := io.ReadFull(g.entropy, buf); err != nil {
		return "", exhausted(err)
	}
	return Token(base64.RawURLEncoding.EncodeToString(buf)), nil
}
