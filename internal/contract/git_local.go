package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return out, fmt.Errorf("git %s failed in %q: %s", strings.Join(args, " "), repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetTreeHash implements the GitClient interface.
func (c *LocalGitClient) GetTreeHash(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", ref+"^{tree}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetStatus implements the GitClient interface.
func (c *LocalGitClient) GetStatus(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "status", "--porcelain", "-uall")
}

// ListBranches implements the GitClient interface.
func (c *LocalGitClient) ListBranches(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "branch", "--no-color", "-a")
}

// ListTree implements the GitClient interface.
func (c *LocalGitClient) ListTree(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	return c.Run(ctx, repoPath, "ls-tree", "-r", ref)
}

// GetFileDiff implements the GitClient interface.
func (c *LocalGitClient) GetFileDiff(ctx context.Context, repoPath string, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--no-color", "--no-ext-diff", "-U0", "--", path)
}

// CatFile implements the GitClient interface.
func (c *LocalGitClient) CatFile(ctx context.Context, repoPath string, object string) ([]byte, error) {
	return c.Run(ctx, repoPath, "cat-file", "-p", object)
}
