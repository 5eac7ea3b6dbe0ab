package testutil

import (
	"fmt"
	"sync"
)

// RunIDs hands out predictable run identifiers: "run-1", "run-2", ...
//
// It satisfies store.RunIDGenerator, so stored runs and golden output are
// byte-identical between test runs.
//
// Thread-safety: RunIDs is safe for concurrent use via internal mutex.
type RunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewRunIDs creates a generator. An empty prefix defaults to "run".
func NewRunIDs(prefix string) *RunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDs{prefix: prefix}
}

// Generate returns the next identifier.
func (g *RunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the sequence, so the next call returns "<prefix>-1".
func (g *RunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
