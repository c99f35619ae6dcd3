package poller

import (
	"time"

	"github.com/huangsam/gitpick/schema"
	"github.com/stretchr/testify/mock"
)

// MockStream is a mock implementation of Stream for testing.
type MockStream struct {
	mock.Mock
}

var _ Stream = &MockStream{} // Compile-time check

// Poll implements the Stream interface.
func (m *MockStream) Poll(maxWait time.Duration) schema.PollResult {
	ret := m.Called(maxWait)
	res, _ := ret.Get(0).(schema.PollResult)
	return res
}

// Kill implements the Stream interface.
func (m *MockStream) Kill() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockSpawner is a mock implementation of Spawner for testing.
type MockSpawner struct {
	mock.Mock
}

var _ Spawner = &MockSpawner{} // Compile-time check

// Spawn implements the Spawner interface.
func (m *MockSpawner) Spawn(argv []string, dir string) (Stream, error) {
	ret := m.Called(argv, dir)
	stream, _ := ret.Get(0).(Stream)
	return stream, ret.Error(1)
}
