package iocache

import (
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetTreeStore implements the CacheManager interface.
func (m *MockCacheManager) GetTreeStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetJournalStore implements the CacheManager interface.
func (m *MockCacheManager) GetJournalStore() contract.JournalStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.JournalStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	ts, _ := args.Get(2).(int64)
	return data, args.Int(1), ts, args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockJournalStore is a mock implementation of JournalStore for testing.
type MockJournalStore struct {
	mock.Mock
}

var _ contract.JournalStore = &MockJournalStore{} // Compile-time check

// Record implements the JournalStore interface.
func (m *MockJournalStore) Record(entry schema.JournalEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// List implements the JournalStore interface.
func (m *MockJournalStore) List(limit int) ([]schema.JournalEntry, error) {
	args := m.Called(limit)
	entries, _ := args.Get(0).([]schema.JournalEntry)
	return entries, args.Error(1)
}

// GetStatus implements the JournalStore interface.
func (m *MockJournalStore) GetStatus() (schema.JournalStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.JournalStatus), args.Error(1)
}

// Close implements the JournalStore interface.
func (m *MockJournalStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
