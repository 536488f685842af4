// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// RunStore persists a history of search runs to durable storage.
// Run IDs are assigned by the store and increase monotonically.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveRun must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type RunStore interface {
	// SaveRun assigns run.ID and persists the run.
	SaveRun(run *Run) error

	// GetRun retrieves one run. Returns nil, nil if it does not exist.
	GetRun(id uint64) (*Run, error)

	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(limit int) ([]*Run, error)

	// Clear removes every run. Idempotent.
	Clear() error
}

// Run records one search: what was searched, how, and what was found.
// The automaton itself is never persisted; only inputs and results are.
type Run struct {
	ID        uint64       `json:"id"`
	Timestamp int64        `json:"timestamp"`  // unix seconds
	Source    string       `json:"source"`     // file path or "upload:<name>" / "request"
	TextBytes int          `json:"text_bytes"` // length of the searched text
	TextHash  uint64       `json:"text_hash"`  // xxhash64 fingerprint of the text
	Engine    string       `json:"engine"`
	Options   MatchOptions `json:"options"`
	Patterns  []string     `json:"patterns"`
	Offsets   [][]int      `json:"offsets"` // index-aligned with Patterns
	ElapsedNs int64        `json:"elapsed_ns"`
}

// Total counts all occurrences in the run.
func (r *Run) Total() int {
	n := 0
	for _, offs := range r.Offsets {
		n += len(offs)
	}
	return n
}
