// Package testutil provides shared test fixtures: temporary stores and a
// canonical graph covering every predicate kind.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/kgraph/internal/fixture"
	"github.com/roach88/kgraph/internal/store"
)

// NewStore opens a store in a temporary directory, closed on cleanup.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// Seed parses fixture YAML and applies it to s.
func Seed(t testing.TB, s *store.Store, yaml string) {
	t.Helper()
	f, err := fixture.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if err := f.Apply(context.Background(), s); err != nil {
		t.Fatalf("apply fixture: %v", err)
	}
}

// GraphStore returns a temporary store seeded with Graph.
func GraphStore(t testing.TB) *store.Store {
	t.Helper()
	s := NewStore(t)
	Seed(t, s, Graph)
	return s
}
