package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/jwebster45206/story-arena/pkg/savefile"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	records   map[string]*savefile.Record
	pingError error
	saveError error
	loadError error
	saves     int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		records: make(map[string]*savefile.Record),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every SaveCharacter call fail with err (nil to clear).
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError makes every LoadCharacter call fail with err (nil to clear).
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	// Mock close doesn't need to do anything
	return nil
}

func (m *MockStorage) SaveCharacter(ctx context.Context, slot string, rec *savefile.Record) error {
	if rec == nil {
		return errors.New("record cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.records[slot] = cloneRecord(rec)
	m.saves++
	return nil
}

func (m *MockStorage) LoadCharacter(ctx context.Context, slot string) (*savefile.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	rec, exists := m.records[slot]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	return cloneRecord(rec), nil
}

func (m *MockStorage) DeleteCharacter(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, slot)
	return nil
}

func (m *MockStorage) ListSlots(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots := make([]string, 0, len(m.records))
	for slot := range m.records {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots, nil
}

// AddRecord seeds a slot directly (for testing)
func (m *MockStorage) AddRecord(slot string, rec *savefile.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[slot] = cloneRecord(rec)
}

// SaveCount returns how many saves succeeded (for testing)
func (m *MockStorage) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func cloneRecord(rec *savefile.Record) *savefile.Record {
	c := *rec
	c.Items = slices.Clone(rec.Items)
	return &c
}
