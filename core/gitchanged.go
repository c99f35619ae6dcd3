package core

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/gitpick/core/parse"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// GitChangedSource lists the first line of every changed hunk in the current buffer.
type GitChangedSource struct {
	client contract.GitClient
	kind   *Kind
}

var _ Source = &GitChangedSource{} // Compile-time check

// NewGitChangedSource creates the gitchanged source.
func NewGitChangedSource(client contract.GitClient) *GitChangedSource {
	return &GitChangedSource{client: client, kind: newGitChangedKind()}
}

// Name implements Source.
func (s *GitChangedSource) Name() schema.SourceName { return schema.GitChangedSource }

// Kind implements Source.
func (s *GitChangedSource) Kind() *Kind { return s.kind }

// DefaultMatcher implements Source.
func (s *GitChangedSource) DefaultMatcher() schema.MatcherName { return schema.FuzzyMatcher }

// Open implements Source. Hunks supplied by the editor win over a fresh diff.
func (s *GitChangedSource) Open(_ context.Context, qc *QueryContext) (Query, error) {
	if qc.Buffer == "" || (qc.Root == "" && len(qc.Hunks) == 0) {
		return emptyQuery(), nil
	}
	buffer, root := qc.Buffer, qc.Root
	return newStaticQuery(func(ctx context.Context) ([]schema.Candidate, error) {
		hunks := qc.Hunks
		if len(hunks) == 0 {
			rel := contract.RelativePath(root, buffer)
			qc.message("git diff -U0 -- " + rel)
			diff, err := s.client.GetFileDiff(ctx, root, rel)
			if err != nil {
				return nil, err
			}
			hunks = parse.Hunks(diff)
		}
		if len(hunks) == 0 {
			return nil, nil
		}

		content, err := os.ReadFile(buffer)
		if err != nil {
			return nil, fmt.Errorf("read buffer %s: %w", buffer, err)
		}
		return parse.ChangedLines(parse.Lines(content), hunks, buffer, root), nil
	}), nil
}
