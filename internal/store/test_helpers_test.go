package store

import (
	"path/filepath"
	"testing"

	"github.com/hqding/Thermal-FIST/internal/testutil"
)

// createTestStore opens a fresh store with predictable run ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithRunIDGenerator(testutil.NewRunIDs("")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
