// Package token provides generators of unique, opaque token values.
//
// Three generators are available, all backed by a 128-bit random
// identifier space:
//   - UUIDGenerator: RFC 4122 version 4 UUIDs (the default)
//   - ULIDGenerator: lexicographically sortable, monotonic ULIDs
//   - RandomGenerator: raw crypto/rand bytes, base64 RawURL encoded
//
// Uniqueness is probabilistic. With 122 or more random bits per token the
// collision probability within a process run is negligible.
package token

import (
	"errors"
	"fmt"
	"io"
)

// Token is an opaque, immutable value. Tokens are compared by value.
type Token string

// String returns the printable form of the token.
func (t Token) String() string {
	return string(t)
}

var (
	// ErrGeneratorExhausted is returned when the entropy source behind a
	// generator fails. No token can be produced safely after this.
	ErrGeneratorExhausted = errors.New("token: generator exhausted")

	// ErrUnknownGenerator is returned by New for an unrecognised name.
	ErrUnknownGenerator = errors.New("token: unknown generator")
)

// Generator produces a fresh token on every call.
//
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate() (Token, error)
}

// Generator names accepted by New.
const (
	KindUUID   = "uuid"
	KindULID   = "ulid"
	KindRandom = "random"
)

// DefaultKind is the generator used when none is configured.
const DefaultKind = KindUUID

// Option configures a generator.
type Option func(*options)

type options struct {
	entropy io.Reader
}

// WithEntropy replaces the entropy source (crypto/rand by default).
func WithEntropy(r io.Reader) Option {
	return func(o *options) {
		o.entropy = r
	}
}

// New returns the generator registered under kind.
func New(kind string, opts ...Option) (Generator, error) {
	switch kind {
	case KindUUID, "":
		return NewUUID(opts...), nil
	case KindULID:
		return NewULID(opts...), nil
	case KindRandom:
		return NewRandom(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, kind)
	}
}

func exhausted(err error) error {
	return fmt.Errorf("%w: %w", ErrGeneratorExhausted, err)
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
