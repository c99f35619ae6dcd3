package editor

import (
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of contract.EditorGateway for testing.
type MockGateway struct {
	mock.Mock
}

var _ contract.EditorGateway = &MockGateway{} // Compile-time check

// Message implements the EditorGateway interface.
func (m *MockGateway) Message(msg string) {
	m.Called(msg)
}

// Input implements the EditorGateway interface.
func (m *MockGateway) Input(prompt string, def string) (string, error) {
	ret := m.Called(prompt, def)
	return ret.String(0), ret.Error(1)
}

// Command implements the EditorGateway interface.
func (m *MockGateway) Command(ex string) error {
	return m.Called(ex).Error(0)
}

// OpenBuffer implements the EditorGateway interface.
func (m *MockGateway) OpenBuffer(path string, line int) error {
	return m.Called(path, line).Error(0)
}

// OpenScratch implements the EditorGateway interface.
func (m *MockGateway) OpenScratch(shellCmd string) error {
	return m.Called(shellCmd).Error(0)
}

// ShowCommit implements the EditorGateway interface.
func (m *MockGateway) ShowCommit(commit string, opts contract.ShowOptions) error {
	return m.Called(commit, opts).Error(0)
}

// DiffThis implements the EditorGateway interface.
func (m *MockGateway) DiffThis(commit string) error {
	return m.Called(commit).Error(0)
}

// DiffShow implements the EditorGateway interface.
func (m *MockGateway) DiffShow(args string, edit string) error {
	return m.Called(args, edit).Error(0)
}

// Commit implements the EditorGateway interface.
func (m *MockGateway) Commit(args string) error {
	return m.Called(args).Error(0)
}

// Reset implements the EditorGateway interface.
func (m *MockGateway) Reset(args string) error {
	return m.Called(args).Error(0)
}

// RemoveFile implements the EditorGateway interface.
func (m *MockGateway) RemoveFile(path string) error {
	return m.Called(path).Error(0)
}

// ReloadBuffers implements the EditorGateway interface.
func (m *MockGateway) ReloadBuffers() error {
	return m.Called().Error(0)
}

// CurrentWindow implements the EditorGateway interface.
func (m *MockGateway) CurrentWindow() int {
	return m.Called().Int(0)
}

// GotoWindow implements the EditorGateway interface.
func (m *MockGateway) GotoWindow(id int) error {
	return m.Called(id).Error(0)
}

// PreviewBuffer implements the EditorGateway interface.
func (m *MockGateway) PreviewBuffer() (string, bool) {
	ret := m.Called()
	return ret.String(0), ret.Bool(1)
}

// ClosePreview implements the EditorGateway interface.
func (m *MockGateway) ClosePreview() error {
	return m.Called().Error(0)
}

// MarkPreview implements the EditorGateway interface.
func (m *MockGateway) MarkPreview() error {
	return m.Called().Error(0)
}
