package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetTreeHash implements the GitClient interface.
func (m *MockGitClient) GetTreeHash(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	return ret.String(0), ret.Error(1)
}

// GetStatus implements the GitClient interface.
func (m *MockGitClient) GetStatus(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// ListBranches implements the GitClient interface.
func (m *MockGitClient) ListBranches(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// ListTree implements the GitClient interface.
func (m *MockGitClient) ListTree(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, ref)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetFileDiff implements the GitClient interface.
func (m *MockGitClient) GetFileDiff(ctx context.Context, repoPath string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, path)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// CatFile implements the GitClient interface.
func (m *MockGitClient) CatFile(ctx context.Context, repoPath string, object string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, object)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
