package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/normstate/internal/state"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record for a "counter/add" action.
func createTestRecord(t *testing.T, session string, seq int64, n int) Record {
	t.Helper()
	r, err := NewRecord(session, seq, 1, state.Action{Type: "counter/add", Payload: n})
	if err != nil {
		t.Fatalf("NewRecord() failed: %v", err)
	}
	return r
}

type counter struct {
	Total int      `json:"total"`
	Seen  []string `json:"seen"`
}

func counterActions() (*state.Actions[counter], *state.Creator[int], *state.Creator[string]) {
	actions := state.New("counter", counter{})
	add := state.Define(actions, "add", func(c *counter, n int) {
		c.Total += n
	})
	see := state.Define(actions, "see", func(c *counter, name string) {
		c.Seen = append(c.Seen, name)
	})
	return actions, add, see
}
