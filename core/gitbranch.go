package core

import (
	"context"

	"github.com/huangsam/gitpick/core/parse"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// GitBranchSource lists local and remote branches.
type GitBranchSource struct {
	client contract.GitClient
	kind   *Kind
}

var _ Source = &GitBranchSource{} // Compile-time check

// NewGitBranchSource creates the gitbranch source.
func NewGitBranchSource(client contract.GitClient) *GitBranchSource {
	return &GitBranchSource{client: client, kind: newGitBranchKind()}
}

// Name implements Source.
func (s *GitBranchSource) Name() schema.SourceName { return schema.GitBranchSource }

// Kind implements Source.
func (s *GitBranchSource) Kind() *Kind { return s.kind }

// DefaultMatcher implements Source.
func (s *GitBranchSource) DefaultMatcher() schema.MatcherName { return schema.FuzzyMatcher }

// Open implements Source.
func (s *GitBranchSource) Open(_ context.Context, qc *QueryContext) (Query, error) {
	root := qc.Root
	if root == "" {
		return emptyQuery(), nil
	}
	return newStaticQuery(func(ctx context.Context) ([]schema.Candidate, error) {
		qc.message("git branch --no-color -a")
		out, err := s.client.ListBranches(ctx, root)
		if err != nil {
			return nil, err
		}
		return parse.All(out, root, parse.BranchLine), nil
	}), nil
}
