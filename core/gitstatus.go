package core

import (
	"context"

	"github.com/huangsam/gitpick/core/parse"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// GitStatusSource lists `git status --porcelain -uall` entries.
type GitStatusSource struct {
	client contract.GitClient
	kind   *Kind
}

var _ Source = &GitStatusSource{} // Compile-time check

// NewGitStatusSource creates the gitstatus source.
func NewGitStatusSource(client contract.GitClient) *GitStatusSource {
	return &GitStatusSource{client: client, kind: newGitStatusKind()}
}

// Name implements Source.
func (s *GitStatusSource) Name() schema.SourceName { return schema.GitStatusSource }

// Kind implements Source.
func (s *GitStatusSource) Kind() *Kind { return s.kind }

// DefaultMatcher implements Source.
func (s *GitStatusSource) DefaultMatcher() schema.MatcherName { return schema.FuzzyMatcher }

// Open implements Source.
func (s *GitStatusSource) Open(_ context.Context, qc *QueryContext) (Query, error) {
	root := qc.Root
	if root == "" {
		return emptyQuery(), nil
	}
	return newStaticQuery(func(ctx context.Context) ([]schema.Candidate, error) {
		qc.message("git status --porcelain -uall")
		out, err := s.client.GetStatus(ctx, root)
		if err != nil {
			return nil, err
		}
		return parse.All(out, root, parse.StatusLine), nil
	}), nil
}
