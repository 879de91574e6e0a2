// Package testutil provides deterministic helpers for tests and the
// scenario harness.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIdentityGenerator mints anonymous-object identities from a
// monotonic counter: "<prefix>-1", "<prefix>-2", ...
//
// The same scenario run with a fresh generator produces byte-identical
// color ids, which keeps golden snapshots stable.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequentialIdentityGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIdentityGenerator creates a generator starting at 0.
// If prefix is empty, "anon" is used.
func NewSequentialIdentityGenerator(prefix string) *SequentialIdentityGenerator {
	if prefix == "" {
		prefix = "anon"
	}
	return &SequentialIdentityGenerator{prefix: prefix}
}

// Generate returns the next identity. The first call returns "<prefix>-1".
func (g *SequentialIdentityGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Reset rewinds the counter so the next Generate returns "<prefix>-1" again.
func (g *SequentialIdentityGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedIdentityGenerator returns predetermined identities in order.
//
// Example:
//
//	gen := NewFixedIdentityGenerator("a", "b")
//	gen.Generate() // "a"
//	gen.Generate() // "b"
//	gen.Generate() // panic: all identities exhausted
type FixedIdentityGenerator struct {
	mu         sync.Mutex
	identities []string
	idx        int
}

// NewFixedIdentityGenerator creates a generator that returns identities in order.
func NewFixedIdentityGenerator(identities ...string) *FixedIdentityGenerator {
	return &FixedIdentityGenerator{identities: identities}
}

// Generate returns the next predetermined identity.
//
// Panics once all identities have been consumed: a test that mints more
// anonymous colors than it planned for is a broken test.
func (g *FixedIdentityGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.identities) {
		panic(fmt.Sprintf("FixedIdentityGenerator: all %d identities exhausted", len(g.identities)))
	}
	id := g.identities[g.idx]
	g.idx++
	return id
}
