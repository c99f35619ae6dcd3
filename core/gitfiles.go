package core

import (
	"context"
	"time"

	"github.com/huangsam/gitpick/core/parse"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// currentTreeCacheVersion defines the version of the cached ls-tree format
const currentTreeCacheVersion = 1

// GitFilesSource lists every blob of a tree with its object hash.
type GitFilesSource struct {
	client contract.GitClient
	mgr    contract.CacheManager
	kind   *Kind
}

var _ Source = &GitFilesSource{} // Compile-time check

// NewGitFilesSource creates the gitfiles source. mgr may be nil to disable caching.
func NewGitFilesSource(client contract.GitClient, mgr contract.CacheManager) *GitFilesSource {
	return &GitFilesSource{client: client, mgr: mgr, kind: newGitFilesKind()}
}

// Name implements Source.
func (s *GitFilesSource) Name() schema.SourceName { return schema.GitFilesSource }

// Kind implements Source.
func (s *GitFilesSource) Kind() *Kind { return s.kind }

// DefaultMatcher implements Source.
func (s *GitFilesSource) DefaultMatcher() schema.MatcherName { return schema.FuzzyMatcher }

// Open implements Source. The first argument overrides the configured ref.
func (s *GitFilesSource) Open(_ context.Context, qc *QueryContext) (Query, error) {
	root := qc.Root
	if root == "" {
		return emptyQuery(), nil
	}
	ref := qc.Arg(0)
	if ref == "" {
		ref = qc.FilesRef
	}
	if ref == "" {
		ref = contract.DefaultFilesRef
	}
	return newStaticQuery(func(ctx context.Context) ([]schema.Candidate, error) {
		qc.message("git ls-tree -r " + ref)
		out, err := s.cachedListTree(ctx, root, ref)
		if err != nil {
			return nil, err
		}
		return parse.All(out, root, parse.TreeLine), nil
	}), nil
}

// cachedListTree serves ls-tree output from the tree cache. Tree objects are
// immutable, so entries keyed by tree hash never go stale.
func (s *GitFilesSource) cachedListTree(ctx context.Context, root, ref string) ([]byte, error) {
	var store contract.CacheStore
	if s.mgr != nil {
		store = s.mgr.GetTreeStore()
	}
	if store == nil {
		return s.client.ListTree(ctx, root, ref)
	}

	treeHash, err := s.client.GetTreeHash(ctx, root, ref)
	if err != nil {
		return nil, err
	}
	key := treeCacheKey(treeHash)

	if data := checkTreeCacheHit(store, key); data != nil {
		return data, nil
	}

	out, err := s.client.ListTree(ctx, root, treeHash)
	if err != nil {
		return nil, err
	}
	if err := store.Set(key, out, currentTreeCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Cannot cache tree listing", err)
	}
	return out, nil
}

// checkTreeCacheHit returns the cached listing, or nil on a miss or version mismatch.
func checkTreeCacheHit(store contract.CacheStore, key string) []byte {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentTreeCacheVersion {
		return nil
	}
	return data
}

// treeCacheKey generates the cache key for a tree listing.
func treeCacheKey(treeHash string) string {
	return "ls-tree:" + treeHash
}
