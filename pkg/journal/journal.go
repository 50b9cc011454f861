// Package journal provides append-only sinks for the narrative record of a
// game session: attacks, wounds, heals, loot and level-ups, one line each.
package journal

import (
	"fmt"
	"os"
	"slices"
	"sync"
)

// Journal appends one narrative entry per call.
type Journal interface {
	Log(entry string) error
}

// File appends entries to a text file opened once in append mode.
// If the file cannot be opened, the failure is kept and returned by the
// first Log call instead of by the constructor.
type File struct {
	mu   sync.Mutex
	path string
	f    *os.File
	err  error
}

var _ Journal = (*File)(nil)

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) *File {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		err = fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	return &File{path: path, f: f, err: err}
}

// Log writes entry followed by a newline.
func (j *File) Log(entry string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	if _, err := fmt.Fprintln(j.f, entry); err != nil {
		j.err = fmt.Errorf("failed to write journal %s: %w", j.path, err)
		return j.err
	}
	return nil
}

// Err returns the first open or write failure, if any.
func (j *File) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Path returns the file the journal appends to.
func (j *File) Path() string {
	return j.path
}

// Close closes the underlying file. It is safe to call more than once.
func (j *File) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	if j.err == nil {
		j.err = fmt.Errorf("journal %s is closed", j.path)
	}
	return err
}

// Memory keeps entries in memory. Used by tests and by the console UI,
// which renders the narrative as it happens.
type Memory struct {
	mu      sync.Mutex
	entries []string
}

var _ Journal = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make([]string, 0)}
}

func (m *Memory) Log(entry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of everything logged so far.
func (m *Memory) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

// Drain returns the entries logged since the last Drain and clears them.
func (m *Memory) Drain() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.entries
	m.entries = make([]string, 0)
	return out
}

type discard struct{}

func (discard) Log(string) error { return nil }

// Discard drops every entry.
var Discard Journal = discard{}

// Tee fans every entry out to several journals. All sinks are written;
// the first error is returned.
func Tee(sinks ...Journal) Journal {
	return tee(sinks)
}

type tee []Journal

func (t tee) Log(entry string) error {
	var first error
	for _, j := range t {
		if err := j.Log(entry); err != nil && first == nil {
			first = err
		}
	}
	return first
}
