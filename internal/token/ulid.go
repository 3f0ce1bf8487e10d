package token

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator produces lowercase ULID strings.
//
// Tokens generated within the same millisecond are strictly increasing,
// so the generator also reports production order.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewULID creates a ULIDGenerator.
func NewULID(opts ...Option) *ULIDGenerator {
	o := buildOptions(opts)
	src := o.entropy
	if src == nil {
		src = rand.Reader
	}
	return &ULIDGenerator{
		entropy: ulid.Monotonic(src, 0),
		now:     time.Now,
	}
}

// Generate returns a new ULID token such as "01j9z3k6q8x2v4m7n5p0r1s2t3".
func (g *ULIDGenerator) Generate() (Token, error) {
	// MonotonicEntropy is not safe for concurrent use.
	g.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	g.mu.Unlock()
	if err != nil {
		return "", exhausted(err)
	}
	return Token(strings.ToLower(id.String())), nil
}
