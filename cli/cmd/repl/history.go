package repl

import (
	"slices"
	"strings"
	"sync"
)

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History holds the lines submitted during a session. It is kept in memory
// only and discarded when the session ends.
type History struct {
	entries []HistoryEntry
	limit   int
	mu      sync.RWMutex
}

// defaultHistoryLimit bounds the number of remembered entries.
const defaultHistoryLimit = 1000

// NewHistory creates an empty History holding at most limit entries.
// A limit of zero or less uses the default.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	return &History{limit: limit}
}

// Write appends a new eval-mode entry to the history.
func (h *History) Write(entry string) int {
	return h.WriteWithMode(entry, modeEval)
}

// WriteWithMode appends a new entry to the history with the specified mode
// and returns the number of entries. An earlier entry with the same line and
// mode is moved to the end instead of repeated.
func (h *History) WriteWithMode(entry string, mode inputMode) int {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return h.Len()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = slices.DeleteFunc(h.entries, func(e HistoryEntry) bool {
		return e.Line == entry && e.Mode == mode
	})

	h.entries = append(h.entries, HistoryEntry{Line: entry, Mode: mode})

	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}

	return len(h.entries)
}

// GetEntry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
