package token_test

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/randomizedcoder/tokenq/internal/token"
)

// failingReader simulates an exhausted entropy source.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func generators() []struct {
	name string
	gen  token.Generator
} {
	return []struct {
		name string
		gen  token.Generator
	}{
		{"UUID", token.NewUUID()},
		{"ULID", token.NewULID()},
		{"Random", token.NewRandom()},
	}
}

func TestGenerator_Uniqueness(t *testing.T) {
	const count = 100_000

	for _, tc := range generators() {
		t.Run(tc.name, func(t *testing.T) {
			seen := make(map[token.Token]struct{}, count)
			for i := 0; i < count; i++ {
				tok, err := tc.gen.Generate()
				if err != nil {
					t.Fatalf("Generate() error on call %d: %v", i, err)
				}
				if _, dup := seen[tok]; dup {
					t.Fatalf("duplicate token %q after %d calls", tok, i)
				}
				seen[tok] = struct{}{}
			}
			if len(seen) != count {
				t.Errorf("expected %d distinct tokens, got %d", count, len(seen))
			}
		})
	}
}

func TestGenerator_ConcurrentUniqueness(t *testing.T) {
	const (
		workers   = 8
		perWorker = 2_000
	)

	for _, tc := range generators() {
		t.Run(tc.name, func(t *testing.T) {
			var (
				mu   sync.Mutex
				seen = make(map[token.Token]struct{}, workers*perWorker)
				wg   sync.WaitGroup
			)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						tok, err := tc.gen.Generate()
						if err != nil {
							t.Errorf("Generate() error: %v", err)
							return
						}
						mu.Lock()
						seen[tok] = struct{}{}
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			if len(seen) != workers*perWorker {
				t.Errorf("expected %d distinct tokens, got %d", workers*perWorker, len(seen))
			}
		})
	}
}

func TestUUIDGenerator_Format(t *testing.T) {
	tok, err := token.NewUUID().Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	id, err := uuid.Parse(tok.String())
	if err != nil {
		t.Fatalf("token %q is not a UUID: %v", tok, err)
	}
	if id.Version() != 4 {
		t.Errorf("expected version 4, got %d", id.Version())
	}
}

func TestULIDGenerator_FormatAndOrder(t *testing.T) {
	g := token.NewULID()

	prev := ""
	for i := 0; i < 1000; i++ {
		tok, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		s := tok.String()
		if s != strings.ToLower(s) {
			t.Errorf("expected lowercase token, got %q", s)
		}
		if _, err := ulid.ParseStrict(strings.ToUpper(s)); err != nil {
			t.Fatalf("token %q is not a ULID: %v", s, err)
		}
		if s <= prev {
			t.Fatalf("ULID order violation: %q after %q", s, prev)
		}
		prev = s
	}
}

func TestRandomGenerator_Format(t *testing.T) {
	tok, err := token.NewRandom().Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	// 16 bytes -> 22 base64 characters without padding
	if len(tok) != 22 {
		t.Errorf("expected 22 characters, got %d (%q)", len(tok), tok)
	}
}

func TestGenerator_Exhausted(t *testing.T) {
	testCases := []struct {
		name string
		gen  token.Generator
	}{
		{"UUID", token.NewUUID(token.WithEntropy(failingReader{}))},
		{"ULID", token.NewULID(token.WithEntropy(failingReader{}))},
		{"Random", token.NewRandom(token.WithEntropy(failingReader{}))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := tc.gen.Generate()
			if !errors.Is(err, token.ErrGeneratorExhausted) {
				t.Fatalf("expected ErrGeneratorExhausted, got %v", err)
			}
			if tok != "" {
				t.Errorf("expected empty token on failure, got %q", tok)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []string{"", token.KindUUID, token.KindULID, token.KindRandom} {
		g, err := token.New(kind)
		if err != nil {
			t.Errorf("New(%q) error: %v", kind, err)
			continue
		}
		if _, err := g.Generate(); err != nil {
			t.Errorf("New(%q).Generate() error: %v", kind, err)
		}
	}

	if _, err := token.New("sequential"); !errors.Is(err, token.ErrUnknownGenerator) {
		t.Errorf("expected ErrUnknownGenerator, got %v", err)
	}
}
