package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/poller"
	"github.com/huangsam/gitpick/schema"
)

// Source produces candidates for one kind of git object.
type Source interface {
	Name() schema.SourceName
	Kind() *Kind
	DefaultMatcher() schema.MatcherName
	Open(ctx context.Context, qc *QueryContext) (Query, error)
}

// Query is one open request against a source. Gather is re-invoked until it
// reports nothing more pending. Close releases any running process.
type Query interface {
	Gather(ctx context.Context) ([]schema.Candidate, bool, error)
	Close()
}

// TargetResolver is implemented by sources that can build an action target
// directly from its key without gathering every candidate.
type TargetResolver interface {
	ResolveTarget(qc *QueryContext, key string) (schema.Candidate, bool)
}

// Registry holds every source wired to its dependencies.
type Registry struct {
	sources map[schema.SourceName]Source
}

// NewRegistry wires all sources. mgr may be nil when storage is disabled.
func NewRegistry(client contract.GitClient, mgr contract.CacheManager, spawner poller.Spawner) *Registry {
	r := &Registry{sources: make(map[schema.SourceName]Source)}
	r.Register(NewGitLogSource(spawner))
	r.Register(NewGitStatusSource(client))
	r.Register(NewGitBranchSource(client))
	r.Register(NewGitChangedSource(client))
	r.Register(NewGitFilesSource(client, mgr))
	return r
}

// Register adds or replaces a source.
func (r *Registry) Register(src Source) {
	r.sources[src.Name()] = src
}

// Get returns the source with the given name.
func (r *Registry) Get(name schema.SourceName) (Source, error) {
	src, ok := r.sources[name]
	if !ok {
		names := make([]string, 0, len(schema.AllSources))
		for _, n := range schema.AllSources {
			names = append(names, string(n))
		}
		return nil, fmt.Errorf("unknown source '%s'. must be %s", name, strings.Join(names, ", "))
	}
	return src, nil
}

// Names lists the registered sources in display order.
func (r *Registry) Names() []schema.SourceName {
	var names []schema.SourceName
	for _, n := range schema.AllSources {
		if _, ok := r.sources[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// staticQuery serves candidates computed once by a blocking source.
type staticQuery struct {
	produce func(ctx context.Context) ([]schema.Candidate, error)
	done    bool
}

var _ Query = &staticQuery{} // Compile-time check

// newStaticQuery wraps a blocking producer.
func newStaticQuery(produce func(ctx context.Context) ([]schema.Candidate, error)) *staticQuery {
	return &staticQuery{produce: produce}
}

// emptyQuery returns a query that yields nothing.
func emptyQuery() *staticQuery {
	return &staticQuery{done: true}
}

// Gather implements Query.
func (q *staticQuery) Gather(ctx context.Context) ([]schema.Candidate, bool, error) {
	if q.done {
		return nil, false, nil
	}
	q.done = true
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	candidates, err := q.produce(ctx)
	return candidates, false, err
}

// Close implements Query.
func (q *staticQuery) Close() {
	q.done = true
}
