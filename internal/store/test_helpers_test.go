package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/kgraph/internal/graph"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEntity creates an entity with fixed provenance fields.
func createTestEntity(id string) graph.Entity {
	return graph.Entity{
		ID:             id,
		CreatedAt:      "2024-01-01T00:00:00Z",
		CreatedAtBlock: "1",
		UpdatedAt:      "2024-01-01T00:00:00Z",
		UpdatedAtBlock: "1",
	}
}

func strPtr(s string) *string { return &s }
